package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/config"
	"github.com/caas-team/statusboard/pkg/metrics"
	"github.com/caas-team/statusboard/pkg/statusboard"
	"github.com/caas-team/statusboard/pkg/store"
)

// NewCmdRun creates a new run command
func NewCmdRun(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run statusboard",
		Long:  `Statusboard will be started with the provided configuration`,
		RunE:  run(version),
	}

	NewFlag("api.address", "apiAddress").String().Bind(cmd, config.DefaultAddress, "api: The address the server is listening on")

	NewFlag("check.interval", "checkInterval").Duration().Bind(cmd, config.DefaultInterval, "check: The time between the start of two check cycles")
	NewFlag("check.timeout", "checkTimeout").Duration().Bind(cmd, config.DefaultTimeout, "check: The maximum duration of a single probe")
	NewFlag("check.slowThreshold", "checkSlowThreshold").Duration().Bind(cmd, 2*time.Second,
		"check: The response time above which a successful probe is degraded")
	NewFlag("check.method", "checkMethod").String().Bind(cmd, "HEAD", "check: The request method of the probes, HEAD or GET")

	NewFlag("loader.type", "loaderType").StringP("l").Bind(cmd, config.FileLoaderType,
		"Defines the loader type that will load the endpoints at the start of every check cycle")
	NewFlag("loader.http.url", "loaderHttpUrl").String().Bind(cmd, "", "http loader: The url where to get the endpoints from")
	NewFlag("loader.http.token", "loaderHttpToken").String().Bind(cmd, "", "http loader: Bearer token to authenticate the http endpoint")
	NewFlag("loader.http.timeout", "loaderHttpTimeout").Duration().Bind(cmd, 30*time.Second, "http loader: The timeout for the http request")
	NewFlag("loader.http.retry.count", "loaderHttpRetryCount").Int().Bind(cmd, 3, "http loader: Amount of retries trying to load the endpoints")
	NewFlag("loader.http.retry.delay", "loaderHttpRetryDelay").Duration().Bind(cmd, time.Second, "http loader: The initial delay between retries")
	NewFlag("loader.file.path", "loaderFilePath").String().Bind(cmd, "endpoints.yaml", "file loader: The path to the file to read the endpoints from")

	NewFlag("store.type", "storeType").String().Bind(cmd, string(store.MEMORY), "store: Where snapshots are published, memory or redis")
	NewFlag("store.redis.address", "storeRedisAddress").String().Bind(cmd, "", "redis store: The address of the redis server")
	NewFlag("store.redis.password", "storeRedisPassword").String().Bind(cmd, "", "redis store: The password of the redis server")
	NewFlag("store.redis.db", "storeRedisDB").Int().Bind(cmd, 0, "redis store: The database to use")
	NewFlag("store.redis.key", "storeRedisKey").String().Bind(cmd, store.DefaultRedisKey, "redis store: The key the snapshot is stored at")
	NewFlag("store.redis.ttl", "storeRedisTTL").Duration().Bind(cmd, 0, "redis store: Expiry of a published snapshot, 0 disables it")

	NewFlag("tracing.exporter", "tracingExporter").String().Bind(cmd, string(metrics.NOOP), "tracing: The exporter of the traces, http, grpc, stdout or noop")
	NewFlag("tracing.url", "tracingUrl").String().Bind(cmd, "", "tracing: The url of the trace collector")
	NewFlag("tracing.token", "tracingToken").String().Bind(cmd, "", "tracing: Bearer token sent to the trace collector")
	NewFlag("tracing.certPath", "tracingCertPath").String().Bind(cmd, "", "tracing: Path to the root certificates of the trace collector")

	return cmd
}

// run is the entry point to start statusboard
func run(version string) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		log := logger.NewLogger()
		ctx, cancel := signal.NotifyContext(logger.IntoContext(context.Background(), log), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		cfg := &config.Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			log.Error("Failed to parse config", "error", err)
			return fmt.Errorf("failed to parse config: %w", err)
		}

		if err := cfg.Validate(ctx); err != nil {
			log.Error("Error while validating the config", "error", err)
			return fmt.Errorf("invalid config: %w", err)
		}

		s, err := statusboard.New(cfg, version)
		if err != nil {
			log.Error("Failed to create statusboard", "error", err)
			return err
		}

		log.Info("Running statusboard", "version", version)
		return s.Run(ctx)
	}
}
