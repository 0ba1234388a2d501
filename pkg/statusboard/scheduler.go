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
	"slices"
	"sync"
	"time"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/config"
	"github.com/caas-team/statusboard/pkg/status"
	"github.com/caas-team/statusboard/pkg/store"
)

// cycleRunner runs one check cycle
type cycleRunner interface {
	RunCycle(ctx context.Context, endpoints []status.EndpointConfig, timeout time.Duration) status.Snapshot
}

// metricsRemover drops the metrics of endpoints that are no longer probed
type metricsRemover interface {
	RemoveLabelledMetrics(ep status.EndpointConfig) error
}

// scheduler runs a check cycle immediately and then once per interval.
// The next cycle is only scheduled once the previous one has published,
// so cycles never overlap.
type scheduler struct {
	cfg     config.CheckConfig
	loader  config.Loader
	runner  cycleRunner
	store   store.Store
	remover metricsRemover

	mu        sync.Mutex
	endpoints []status.EndpointConfig
}

func newScheduler(cfg config.CheckConfig, l config.Loader, r cycleRunner, st store.Store, rm metricsRemover) *scheduler {
	return &scheduler{
		cfg:       cfg,
		loader:    l,
		runner:    r,
		store:     st,
		remover:   rm,
		endpoints: []status.EndpointConfig{},
	}
}

// Run blocks until the context is done
func (s *scheduler) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.InfoContext(ctx, "Starting check scheduler", "interval", s.cfg.Interval.String(), "timeout", s.cfg.Timeout.String())

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "Check scheduler stopped", "error", ctx.Err())
			return ctx.Err()
		case <-timer.C:
			start := time.Now()
			s.cycle(ctx)
			timer.Reset(max(s.cfg.Interval-time.Since(start), 0))
		}
	}
}

// cycle loads the endpoints, probes them and publishes exactly one snapshot
func (s *scheduler) cycle(ctx context.Context) {
	log := logger.FromContext(ctx)

	endpoints := s.load(ctx)
	snap := s.runner.RunCycle(ctx, endpoints, s.cfg.Timeout)
	if ctx.Err() != nil {
		log.DebugContext(ctx, "Discarding snapshot of interrupted cycle")
		return
	}

	if err := s.store.Publish(ctx, snap); err != nil {
		log.ErrorContext(ctx, "Failed to publish snapshot", "error", err)
		return
	}
	log.DebugContext(ctx, "Published snapshot", "overall", snap.OverallStatus, "lastUpdated", snap.LastUpdated)
}

// load returns the endpoints for the next cycle.
// If the loader fails the last good list is used.
func (s *scheduler) load(ctx context.Context) []status.EndpointConfig {
	log := logger.FromContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	endpoints, err := s.loader.Load(ctx)
	if err != nil {
		log.WarnContext(ctx, "Failed to load endpoints, using last known endpoints", "amount", len(s.endpoints), "error", err)
		return s.endpoints
	}

	for _, old := range s.endpoints {
		if !slices.Contains(endpoints, old) {
			if err := s.remover.RemoveLabelledMetrics(old); err != nil {
				log.DebugContext(ctx, "Failed to remove metrics of endpoint", "url", old.URL, "error", err)
			}
		}
	}

	s.endpoints = endpoints
	return endpoints
}
