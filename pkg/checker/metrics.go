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

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	cycleDuration prometheus.Gauge
	cycles        prometheus.Counter
	overall       prometheus.Gauge
}

func newMetrics() metrics {
	return metrics{
		cycleDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statusboard_cycle_duration_seconds",
			Help: "Duration of the last check cycle in seconds",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statusboard_cycles_total",
			Help: "Count of completed check cycles",
		}),
		overall: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statusboard_overall_status",
			Help: "Overall status of the last cycle: 0 operational, 2 degraded, 3 outage",
		}),
	}
}
