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
	"errors"
	"fmt"
)

// Status is the health state of a single endpoint or of an aggregate of endpoints
type Status string

const (
	// Operational means the endpoint answered successfully within the slow threshold
	Operational Status = "operational"
	// Degraded means the endpoint is reachable but slow or answering with a non 5xx error
	Degraded Status = "degraded"
	// Outage means the endpoint answered with a 5xx or could not be reached at all
	Outage Status = "outage"
	// Unknown is never produced by a probe. It is reserved for results that could
	// not be determined, e.g. when a remote proxy is unreachable.
	Unknown Status = "unknown"
)

// ErrInvalidStatus is returned when a status string is not one of the known statuses
var ErrInvalidStatus = errors.New("invalid status")

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Severity ranks the status for aggregation. Higher is more severe.
func (s Status) Severity() int {
	switch s {
	case Operational:
		return 0
	case Unknown:
		return 1
	case Degraded:
		return 2
	case Outage:
		return 3
	default:
		return -1
	}
}

// IsValid reports whether s is one of the four known statuses
func (s Status) IsValid() bool {
	return s.Severity() >= 0
}

// UnmarshalText decodes a status and rejects unknown values
func (s *Status) UnmarshalText(b []byte) error {
	v := Status(b)
	if !v.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(b))
	}
	*s = v
	return nil
}
