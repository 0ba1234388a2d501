// statusboard
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package statusboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/api"
	"github.com/caas-team/statusboard/pkg/checker"
	"github.com/caas-team/statusboard/pkg/config"
	"github.com/caas-team/statusboard/pkg/metrics"
	"github.com/caas-team/statusboard/pkg/probe"
	"github.com/caas-team/statusboard/pkg/store"
)

const shutdownTimeout = 30 * time.Second

// Statusboard probes the configured endpoints periodically
// and serves the latest aggregated snapshot.
// On demand checks run on the adhoc checker whose collectors are never
// registered, so caller supplied urls do not end up in the served metrics.
type Statusboard struct {
	config    *config.Config
	version   string
	api       api.API
	metrics   metrics.Provider
	prober    *probe.Prober
	checker   *checker.Checker
	adhoc     *checker.Checker
	store     store.Store
	scheduler *scheduler
}

// New creates a new Statusboard from the given configuration
func New(cfg *config.Config, version string) (*Statusboard, error) {
	opts := probe.Options{
		Method:        cfg.Check.Method,
		SlowThreshold: cfg.Check.SlowThreshold,
		UserAgent:     UserAgent(version),
	}
	prober, err := probe.New(nil, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create prober: %w", err)
	}
	adhoc, err := probe.New(nil, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create prober: %w", err)
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	loader, err := config.NewLoader(cfg.Loader)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}

	c := checker.New(prober)
	return &Statusboard{
		config:    cfg,
		version:   version,
		api:       api.New(cfg.Api),
		metrics:   metrics.New(cfg.Tracing, version),
		prober:    prober,
		checker:   c,
		adhoc:     checker.New(adhoc),
		store:     st,
		scheduler: newScheduler(cfg.Check, loader, c, st, prober),
	}, nil
}

// UserAgent returns the User-Agent header sent with every probe
func UserAgent(version string) string {
	return "statusboard/" + version
}

// Run starts the api and the check scheduler.
// Blocks until the context is done or one of them fails.
func (s *Statusboard) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	if err := s.metrics.InitTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := s.registerMetrics(); err != nil {
		return err
	}
	if err := s.api.RegisterRoutes(ctx, s.routes()...); err != nil {
		log.ErrorContext(ctx, "Error while registering routes", "error", err)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.api.Run(gctx)
	})
	g.Go(func() error {
		return s.scheduler.Run(gctx)
	})

	err := g.Wait()
	log.InfoContext(ctx, "Shutting down statusboard", "reason", err)
	if sErr := s.shutdown(ctx); sErr != nil {
		return errors.Join(err, sErr)
	}
	if ctx.Err() != nil {
		// regular shutdown requested by the caller
		return nil
	}
	return err
}

// registerMetrics registers the collectors of the scheduled checks
func (s *Statusboard) registerMetrics() error {
	if err := s.metrics.Register(s.prober.GetMetricCollectors()...); err != nil {
		return err
	}
	return s.metrics.Register(s.checker.GetMetricCollectors()...)
}

// shutdown stops the api and flushes the traces
func (s *Statusboard) shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	sCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.api.Shutdown(sCtx); err != nil {
		log.ErrorContext(ctx, "Failed to shutdown api", "error", err)
		errs = append(errs, err)
	}
	if err := s.metrics.Shutdown(sCtx); err != nil {
		errs = append(errs, err)
	}
	if c, ok := s.store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close store", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
