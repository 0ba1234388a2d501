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

package status

import "time"

// GroupByEnvironment groups results by the environment of their endpoint.
// results[i] must belong to endpoints[i]. Environments are ordered by the first
// occurrence of their name in endpoints and regions keep the endpoint order.
// If the lengths differ, only the common prefix is grouped.
func GroupByEnvironment(results []RegionStatus, endpoints []EndpointConfig) []Environment {
	n := min(len(results), len(endpoints))
	envs := make([]Environment, 0)
	index := make(map[string]int)

	for i := 0; i < n; i++ {
		name := endpoints[i].Environment
		j, ok := index[name]
		if !ok {
			j = len(envs)
			index[name] = j
			envs = append(envs, Environment{Name: name, Regions: make([]RegionStatus, 0, 1)})
		}
		envs[j].Regions = append(envs[j].Regions, results[i])
	}

	return envs
}

// OverallStatus reduces all regions of all environments to one status.
// Any outage wins over any degraded, which wins over operational.
// Unknown regions do not escalate the result and no regions at all is operational.
func OverallStatus(environments []Environment) Status {
	hasOutage, hasDegraded := false, false
	for _, env := range environments {
		for _, region := range env.Regions {
			switch region.Status {
			case Outage:
				hasOutage = true
			case Degraded:
				hasDegraded = true
			}
		}
	}

	if hasOutage {
		return Outage
	}
	if hasDegraded {
		return Degraded
	}
	return Operational
}

// NewSnapshot groups the results of one cycle and derives the overall status
func NewSnapshot(endpoints []EndpointConfig, results []RegionStatus, at time.Time) Snapshot {
	envs := GroupByEnvironment(results, endpoints)
	return Snapshot{
		LastUpdated:   at,
		Environments:  envs,
		OverallStatus: OverallStatus(envs),
	}
}
