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

package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/caas-team/statusboard/internal/logger"
)

const serviceName = "statusboard"

var _ Provider = (*manager)(nil)

// Provider combines the prometheus registry and the OpenTelemetry tracer provider
type Provider interface {
	// GetRegistry returns the registry all collectors are registered with
	GetRegistry() *prometheus.Registry
	// Register registers the given collectors with the registry
	Register(cs ...prometheus.Collector) error
	// InitTracing installs the global tracer provider
	InitTracing(ctx context.Context) error
	// Shutdown flushes and stops the tracer provider
	Shutdown(ctx context.Context) error
}

type manager struct {
	config   Config
	version  string
	registry *prometheus.Registry
	tp       *sdktrace.TracerProvider
}

// New creates a registry holding the go and process collectors
func New(config Config, version string) Provider {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &manager{
		config:   config,
		version:  version,
		registry: registry,
	}
}

func (m *manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *manager) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return nil
}

const (
	// batchTimeout is the maximum time the exporter waits for a batch to be ready
	batchTimeout = 5 * time.Second
	// maxQueueSize is the maximum number of spans queued before they are dropped
	maxQueueSize = 1000
	// maxBatchSize is the maximum number of spans exported in a single batch
	maxBatchSize = 100
)

// InitTracing installs a tracer provider exporting through the configured exporter.
// With the noop exporter the global no-op provider is kept.
func (m *manager) InitTracing(ctx context.Context) error {
	log := logger.FromContext(ctx)

	exporter, err := m.config.Exporter.Create(ctx, &m.config)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create exporter", "error", err)
		return fmt.Errorf("failed to create exporter: %w", err)
	}
	if exporter == nil {
		log.DebugContext(ctx, "Tracing disabled", "exporter", m.config.Exporter)
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", m.version),
		),
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create resource", "error", err)
		return fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(exporter,
		sdktrace.WithBatchTimeout(batchTimeout),
		sdktrace.WithMaxQueueSize(maxQueueSize),
		sdktrace.WithMaxExportBatchSize(maxBatchSize),
	)
	m.tp = sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(m.tp)
	log.DebugContext(ctx, "Tracing initialized with new provider", "exporter", m.config.Exporter)
	return nil
}

func (m *manager) Shutdown(ctx context.Context) error {
	if m.tp == nil {
		return nil
	}
	if err := m.tp.Shutdown(ctx); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}
