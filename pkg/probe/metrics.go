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
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/caas-team/statusboard/pkg/status"
)

// ErrMetricNotFound is returned when there are no metrics for an endpoint
type ErrMetricNotFound struct {
	URL string
}

func (e ErrMetricNotFound) Error() string {
	return fmt.Sprintf("metric for endpoint %q not found", e.URL)
}

// metrics defines the metric collectors of the prober
type metrics struct {
	status       *prometheus.GaugeVec
	responseTime *prometheus.HistogramVec
	probes       *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the prober
func newMetrics() metrics {
	labels := []string{"environment", "region", "url"}
	return metrics{
		status: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "statusboard_endpoint_status",
				Help: "Status of endpoints: 0 operational, 1 unknown, 2 degraded, 3 outage",
			},
			labels,
		),
		responseTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "statusboard_endpoint_response_seconds",
				Help:    "Response time of completed probes in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			labels,
		),
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statusboard_endpoint_probes_total",
				Help: "Count of probes done per endpoint and resulting status",
			},
			append(labels, "status"),
		),
	}
}

func (m metrics) observe(ep status.EndpointConfig, res status.RegionStatus) {
	m.status.WithLabelValues(ep.Environment, ep.Region, ep.URL).Set(float64(res.Status.Severity()))
	m.probes.WithLabelValues(ep.Environment, ep.Region, ep.URL, res.Status.String()).Inc()
	if res.ResponseTime != nil {
		m.responseTime.WithLabelValues(ep.Environment, ep.Region, ep.URL).Observe(res.ResponseTime.Seconds())
	}
}

// Remove removes all metrics of an endpoint
func (m metrics) Remove(ep status.EndpointConfig) error {
	labels := prometheus.Labels{"environment": ep.Environment, "region": ep.Region, "url": ep.URL}
	if !m.status.Delete(labels) {
		return ErrMetricNotFound{URL: ep.URL}
	}
	m.responseTime.Delete(labels)
	m.probes.DeletePartialMatch(labels)
	return nil
}
