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

import (
	"net/http"
	"time"
)

// DefaultSlowThreshold is the response time above which a successful probe is degraded
const DefaultSlowThreshold = 2 * time.Second

// Succeeded reports whether the status code is in the success range of the transport
func Succeeded(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// Classify maps the outcome of a completed probe to a status:
//   - succeeded and slower than the threshold: degraded
//   - succeeded: operational
//   - not succeeded with a 5xx code: outage
//   - any other code: degraded
//
// A slowThreshold <= 0 selects DefaultSlowThreshold.
// Probes that did not complete at all are not classified here, see Unreachable.
func Classify(succeeded bool, code int, elapsed, slowThreshold time.Duration) Status {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}

	switch {
	case succeeded && elapsed > slowThreshold:
		return Degraded
	case succeeded:
		return Operational
	case code >= http.StatusInternalServerError:
		return Outage
	default:
		return Degraded
	}
}

// Completed builds the result of a probe that received a response
func Completed(ep EndpointConfig, code int, elapsed, slowThreshold time.Duration, at time.Time) RegionStatus {
	return RegionStatus{
		Region:       ep.Region,
		URL:          ep.URL,
		Status:       Classify(Succeeded(code), code, elapsed, slowThreshold),
		ResponseTime: &elapsed,
		LastChecked:  at,
	}
}

// Unreachable builds the result of a probe that did not complete
// (network error, abort or timeout). It has no response time.
func Unreachable(ep EndpointConfig, at time.Time) RegionStatus {
	return RegionStatus{
		Region:      ep.Region,
		URL:         ep.URL,
		Status:      Outage,
		LastChecked: at,
	}
}

// Undetermined builds a result for an endpoint whose health could not be determined
// by a collaborator, e.g. a proxy that did not answer
func Undetermined(ep EndpointConfig, at time.Time) RegionStatus {
	return RegionStatus{
		Region:      ep.Region,
		URL:         ep.URL,
		Status:      Unknown,
		LastChecked: at,
	}
}
