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

package probe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/caas-team/statusboard/internal/httpclient"
	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/status"
)

// ErrUnsupportedMethod is returned when a probe is configured with a method other than HEAD or GET
var ErrUnsupportedMethod = errors.New("unsupported probe method")

// Options configures a Prober
type Options struct {
	// Method is the request method, HEAD or GET. Defaults to HEAD.
	Method string
	// SlowThreshold is the response time above which a successful probe is degraded.
	// Defaults to status.DefaultSlowThreshold.
	SlowThreshold time.Duration
	// UserAgent is sent with every probe request
	UserAgent string
}

// Prober performs single, time bounded health probes against endpoints.
// A Prober is safe for concurrent use.
type Prober struct {
	client        *http.Client
	method        string
	slowThreshold time.Duration
	metrics       metrics
	now           func() time.Time
}

// New creates a Prober. If client is nil a client carrying the configured
// User-Agent is created.
func New(client *http.Client, opts Options) (*Prober, error) {
	method := opts.Method
	switch method {
	case "":
		method = http.MethodHead
	case http.MethodHead, http.MethodGet:
	default:
		return nil, ErrUnsupportedMethod
	}

	if client == nil {
		client = httpclient.New(opts.UserAgent, 0)
	}

	return &Prober{
		client:        client,
		method:        method,
		slowThreshold: opts.SlowThreshold,
		metrics:       newMetrics(),
		now:           time.Now,
	}, nil
}

// Probe issues one request to the endpoint and classifies the outcome.
// The request is aborted once timeout has passed; a probe that does not
// complete for any reason is an outage without response time.
// Probe never returns an error and never retries.
func (p *Prober) Probe(ctx context.Context, ep status.EndpointConfig, timeout time.Duration) status.RegionStatus {
	log := logger.FromContext(ctx).With("url", ep.URL, "environment", ep.Environment, "region", ep.Region)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, p.method, ep.URL, http.NoBody)
	if err != nil {
		log.WarnContext(ctx, "Could not create probe request", "error", err)
		return p.record(ep, status.Unreachable(ep, p.now()))
	}

	start := time.Now()
	resp, err := p.client.Do(req) //nolint:bodyclose // closed below
	elapsed := time.Since(start)
	if err != nil {
		log.DebugContext(ctx, "Probe did not complete", "error", err, "elapsed", elapsed.String())
		return p.record(ep, status.Unreachable(ep, p.now()))
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			log.DebugContext(ctx, "Failed to close response body", "error", cErr)
		}
	}()

	res := status.Completed(ep, resp.StatusCode, elapsed, p.slowThreshold, p.now())
	log.DebugContext(ctx, "Probe completed", "code", resp.StatusCode, "elapsed", elapsed.String(), "status", res.Status)
	return p.record(ep, res)
}

// Method returns the request method used for probes
func (p *Prober) Method() string {
	return p.method
}

// GetMetricCollectors returns all metric collectors of the prober
func (p *Prober) GetMetricCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.metrics.status,
		p.metrics.responseTime,
		p.metrics.probes,
	}
}

// RemoveLabelledMetrics removes the metrics of an endpoint that is no longer probed
func (p *Prober) RemoveLabelledMetrics(ep status.EndpointConfig) error {
	return p.metrics.Remove(ep)
}

func (p *Prober) record(ep status.EndpointConfig, res status.RegionStatus) status.RegionStatus {
	p.metrics.observe(ep, res)
	return res
}
