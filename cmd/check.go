package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/caas-team/statusboard/internal/httpclient"
	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/checker"
	"github.com/caas-team/statusboard/pkg/config"
	"github.com/caas-team/statusboard/pkg/probe"
	"github.com/caas-team/statusboard/pkg/remote"
	"github.com/caas-team/statusboard/pkg/status"
	"github.com/caas-team/statusboard/pkg/statusboard"
)

const (
	// checkModeDirect probes the endpoints from this process
	checkModeDirect = "direct"
	// checkModeProxy lets a running statusboard probe the endpoints
	checkModeProxy = "proxy"
	// checkModeBackend fetches the latest snapshot of a running statusboard
	checkModeBackend = "backend"
)

type checkOptions struct {
	mode          string
	url           string
	endpoints     string
	timeout       time.Duration
	slowThreshold time.Duration
	method        string
}

// NewCmdCheck creates a command that runs a single check and
// prints the resulting snapshot
func NewCmdCheck(version string) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single check and print the snapshot",
		Long: "Probes the endpoints once and prints the aggregated snapshot as json.\n" +
			"In proxy mode a running statusboard probes on behalf of the caller, " +
			"in backend mode its latest snapshot is fetched.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), opts, version)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", checkModeDirect, "How to obtain the snapshot: direct, proxy or backend")
	cmd.Flags().StringVar(&opts.url, "url", "http://localhost"+config.DefaultAddress, "Base url of a running statusboard, used in proxy and backend mode")
	cmd.Flags().StringVarP(&opts.endpoints, "endpoints", "f", "endpoints.yaml", "Path to the endpoints file, used in direct and proxy mode")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "The maximum duration of a single probe")
	cmd.Flags().DurationVar(&opts.slowThreshold, "slowThreshold", 2*time.Second, "The response time above which a successful probe is degraded")
	cmd.Flags().StringVar(&opts.method, "method", http.MethodHead, "The request method of the probes, HEAD or GET")

	return cmd
}

func runCheck(ctx context.Context, opts *checkOptions, version string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.IntoContext(ctx, logger.NewLogger())

	snap, err := snapshot(ctx, opts, version)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func snapshot(ctx context.Context, opts *checkOptions, version string) (status.Snapshot, error) {
	client := httpclient.New(statusboard.UserAgent(version), opts.timeout+5*time.Second)

	switch opts.mode {
	case checkModeBackend:
		return remote.NewBackend(opts.url, client).FetchSnapshot(ctx)
	case checkModeProxy:
		endpoints, err := config.NewFileLoader(config.FileLoaderConfig{Path: opts.endpoints}).Load(ctx)
		if err != nil {
			return status.Snapshot{}, err
		}
		results := remote.NewProxy(opts.url, client).Check(ctx, endpoints, opts.timeout)
		return status.NewSnapshot(endpoints, results, time.Now()), nil
	case checkModeDirect:
		endpoints, err := config.NewFileLoader(config.FileLoaderConfig{Path: opts.endpoints}).Load(ctx)
		if err != nil {
			return status.Snapshot{}, err
		}
		p, err := probe.New(nil, probe.Options{
			Method:        opts.method,
			SlowThreshold: opts.slowThreshold,
			UserAgent:     statusboard.UserAgent(version),
		})
		if err != nil {
			return status.Snapshot{}, err
		}
		return checker.New(p).RunCycle(ctx, endpoints, opts.timeout), nil
	default:
		return status.Snapshot{}, fmt.Errorf("unknown check mode %q", opts.mode)
	}
}
