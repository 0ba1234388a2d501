package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/caas-team/statusboard/internal/httpclient"
	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/config"
	"github.com/caas-team/statusboard/pkg/healthz"
)

var (
	errUnhealthy = errors.New("statusboard is unhealthy")
	errNotReady  = errors.New("statusboard has not published a snapshot yet")
)

// NewCmdHealth creates a command that checks a running statusboard,
// e.g. as container health check
func NewCmdHealth() *cobra.Command {
	var (
		address string
		ready   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health of a running statusboard",
		Long:  `Exits with a non zero code if the statusboard listening on the given address is unhealthy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(logger.IntoContext(ctx, logger.NewLogger()), timeout)
			defer cancel()
			return checkHealth(ctx, healthz.New(address, httpclient.New("", timeout)), ready)
		},
	}

	cmd.Flags().StringVar(&address, "address", config.DefaultAddress, "The listening address of the statusboard api")
	cmd.Flags().BoolVar(&ready, "ready", false, "Additionally require a published snapshot")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "The timeout of the health check")

	return cmd
}

func checkHealth(ctx context.Context, c healthz.Checker, ready bool) error {
	if !c.CheckOverallHealth(ctx) {
		return errUnhealthy
	}
	if ready && !c.IsReady(ctx) {
		return errNotReady
	}
	return nil
}
