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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"
)

// EndpointConfig describes a single probe target.
// The order of a list of endpoints is significant and is preserved in every snapshot.
type EndpointConfig struct {
	Environment string `json:"environment" yaml:"environment" mapstructure:"environment"`
	Region      string `json:"region" yaml:"region" mapstructure:"region"`
	URL         string `json:"url" yaml:"url" mapstructure:"url"`
	// Name is an optional display name
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
}

// ErrInvalidEndpoint is returned when an endpoint configuration is invalid
type ErrInvalidEndpoint struct {
	Field  string
	Reason string
}

func (e ErrInvalidEndpoint) Error() string {
	return fmt.Sprintf("invalid endpoint field %q: %s", e.Field, e.Reason)
}

// Validate checks that all fields of the endpoint are set and that the url
// is an absolute http(s) url. All violations are returned joined.
func (e EndpointConfig) Validate() error {
	var errs []error
	if e.URL == "" {
		errs = append(errs, ErrInvalidEndpoint{Field: "url", Reason: "URL is required"})
	} else if u, err := url.ParseRequestURI(e.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ErrInvalidEndpoint{Field: "url", Reason: "Invalid URL format"})
	}
	if e.Environment == "" {
		errs = append(errs, ErrInvalidEndpoint{Field: "environment", Reason: "Environment is required"})
	}
	if e.Region == "" {
		errs = append(errs, ErrInvalidEndpoint{Field: "region", Reason: "Region is required"})
	}
	return errors.Join(errs...)
}

// RegionStatus is the result of probing one endpoint in one check cycle.
// ResponseTime is nil exactly when the probe did not complete.
type RegionStatus struct {
	Region       string         `json:"region"`
	URL          string         `json:"url"`
	Status       Status         `json:"status"`
	ResponseTime *time.Duration `json:"responseTime"`
	LastChecked  time.Time      `json:"lastChecked"`
}

// Environment groups the results of all endpoints sharing an environment name
type Environment struct {
	Name    string         `json:"name"`
	Regions []RegionStatus `json:"regions"`
}

// Snapshot is the result of one check cycle. Environments and their regions
// are shared on assignment; use Clone for a copy that can be modified.
type Snapshot struct {
	LastUpdated   time.Time     `json:"lastUpdated"`
	Environments  []Environment `json:"environments"`
	OverallStatus Status        `json:"overallStatus"`
}

// Clone returns a deep copy of the snapshot that shares no slices or
// response times with s
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Environments == nil {
		return c
	}
	c.Environments = make([]Environment, len(s.Environments))
	for i, env := range s.Environments {
		c.Environments[i] = Environment{Name: env.Name}
		if env.Regions == nil {
			continue
		}
		c.Environments[i].Regions = make([]RegionStatus, len(env.Regions))
		for j, r := range env.Regions {
			if r.ResponseTime != nil {
				rt := *r.ResponseTime
				r.ResponseTime = &rt
			}
			c.Environments[i].Regions[j] = r
		}
	}
	return c
}

// CheckRequest is the body of an on-demand check sent to a proxy
type CheckRequest struct {
	Endpoints []EndpointConfig `json:"endpoints"`
	// Timeout is the probe timeout in milliseconds. Zero selects the default.
	Timeout int64 `json:"timeout,omitempty"`
}

// regionStatusWire is the json representation of a RegionStatus.
// The response time is transported in milliseconds.
type regionStatusWire struct {
	Region       string    `json:"region"`
	URL          string    `json:"url"`
	Status       Status    `json:"status"`
	ResponseTime *float64  `json:"responseTime"`
	LastChecked  time.Time `json:"lastChecked"`
}

// MarshalJSON encodes the response time as integer milliseconds or null
func (r RegionStatus) MarshalJSON() ([]byte, error) {
	w := regionStatusWire{
		Region:      r.Region,
		URL:         r.URL,
		Status:      r.Status,
		LastChecked: r.LastChecked,
	}
	if r.ResponseTime != nil {
		ms := float64(r.ResponseTime.Milliseconds())
		w.ResponseTime = &ms
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a RegionStatus with the response time given in milliseconds
func (r *RegionStatus) UnmarshalJSON(b []byte) error {
	var w regionStatusWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = RegionStatus{
		Region:      w.Region,
		URL:         w.URL,
		Status:      w.Status,
		LastChecked: w.LastChecked,
	}
	if w.ResponseTime != nil {
		d := time.Duration(math.Round(*w.ResponseTime * float64(time.Millisecond)))
		r.ResponseTime = &d
	}
	return nil
}
