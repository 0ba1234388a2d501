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

package checker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/status"
)

const tracerName = "github.com/caas-team/statusboard/pkg/checker"

// Prober probes a single endpoint within a bounded time
type Prober interface {
	Probe(ctx context.Context, ep status.EndpointConfig, timeout time.Duration) status.RegionStatus
}

// Checker runs check cycles over a list of endpoints.
// It holds no state between cycles.
type Checker struct {
	prober  Prober
	metrics metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// New creates a new Checker that probes endpoints with the given prober
func New(p Prober) *Checker {
	return &Checker{
		prober:  p,
		metrics: newMetrics(),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
}

// RunCycle probes all endpoints concurrently, waits until every probe has
// finished and returns the aggregated snapshot. results are correlated with
// endpoints by position. Every probe is bounded by timeout, so one slow
// endpoint never delays the cycle beyond that.
func (c *Checker) RunCycle(ctx context.Context, endpoints []status.EndpointConfig, timeout time.Duration) status.Snapshot {
	log := logger.FromContext(ctx)
	ctx, span := c.tracer.Start(ctx, "checker.RunCycle", trace.WithAttributes(
		attribute.Int("endpoints", len(endpoints)),
		attribute.String("timeout", timeout.String()),
	))
	defer span.End()

	start := time.Now()
	results := c.Probe(ctx, endpoints, timeout)
	snap := status.NewSnapshot(endpoints, results, c.now())
	duration := time.Since(start)

	c.metrics.cycleDuration.Set(duration.Seconds())
	c.metrics.cycles.Inc()
	c.metrics.overall.Set(float64(snap.OverallStatus.Severity()))

	span.SetAttributes(attribute.String("overall_status", snap.OverallStatus.String()))
	log.InfoContext(ctx, "Check cycle finished",
		"endpoints", len(endpoints),
		"environments", len(snap.Environments),
		"overall", snap.OverallStatus,
		"duration", duration.String(),
	)
	return snap
}

// Probe probes all endpoints concurrently and returns the results in the
// order of endpoints without grouping them.
func (c *Checker) Probe(ctx context.Context, endpoints []status.EndpointConfig, timeout time.Duration) []status.RegionStatus {
	log := logger.FromContext(ctx)
	results := make([]status.RegionStatus, len(endpoints))
	if len(endpoints) == 0 {
		log.DebugContext(ctx, "No endpoints configured")
		return results
	}

	var wg sync.WaitGroup
	log.DebugContext(ctx, "Probing each endpoint in separate routine", "amount", len(endpoints))
	for i, ep := range endpoints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.probe(ctx, ep, timeout)
		}()
	}

	wg.Wait()
	log.DebugContext(ctx, "All probes finished")
	return results
}

// probe runs a single probe in its own span. A panicking prober only
// affects the result of its own endpoint.
func (c *Checker) probe(ctx context.Context, ep status.EndpointConfig, timeout time.Duration) (res status.RegionStatus) {
	ctx, span := c.tracer.Start(ctx, "checker.Probe", trace.WithAttributes(
		attribute.String("environment", ep.Environment),
		attribute.String("region", ep.Region),
		attribute.String("url", ep.URL),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).ErrorContext(ctx, "Probe panicked", "url", ep.URL, "panic", r)
			span.SetStatus(codes.Error, "probe panicked")
			res = status.Unreachable(ep, c.now())
		}
		span.SetAttributes(attribute.String("status", res.Status.String()))
	}()

	return c.prober.Probe(ctx, ep, timeout)
}

// GetMetricCollectors returns all metric collectors of the checker
func (c *Checker) GetMetricCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.metrics.cycleDuration,
		c.metrics.cycles,
		c.metrics.overall,
	}
}
