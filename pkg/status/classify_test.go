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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name          string
		succeeded     bool
		code          int
		elapsed       time.Duration
		slowThreshold time.Duration
		want          Status
	}{
		{name: "fast success", succeeded: true, code: 200, elapsed: 500 * ms, want: Operational},
		{name: "success just below threshold", succeeded: true, code: 200, elapsed: 1999 * ms, want: Operational},
		{name: "success exactly at threshold", succeeded: true, code: 200, elapsed: 2000 * ms, want: Operational},
		{name: "success one nanosecond above threshold", succeeded: true, code: 200, elapsed: 2000*ms + 1, want: Degraded},
		{name: "slow success", succeeded: true, code: 200, elapsed: 2001 * ms, want: Degraded},
		{name: "very slow success", succeeded: true, code: 204, elapsed: 5000 * ms, want: Degraded},
		{name: "bad request", succeeded: false, code: 400, elapsed: 100 * ms, want: Degraded},
		{name: "not found", succeeded: false, code: 404, elapsed: 50 * ms, want: Degraded},
		{name: "too many requests", succeeded: false, code: 429, elapsed: 100 * ms, want: Degraded},
		{name: "redirect not followed", succeeded: false, code: 302, elapsed: 100 * ms, want: Degraded},
		{name: "internal server error", succeeded: false, code: 500, elapsed: 50 * ms, want: Outage},
		{name: "bad gateway", succeeded: false, code: 502, elapsed: 100 * ms, want: Outage},
		{name: "service unavailable", succeeded: false, code: 503, elapsed: 50 * ms, want: Outage},
		{name: "slow 5xx is still outage", succeeded: false, code: 503, elapsed: 5000 * ms, want: Outage},
		{name: "custom threshold exceeded", succeeded: true, code: 200, elapsed: 1500 * ms, slowThreshold: time.Second, want: Degraded},
		{name: "custom threshold met", succeeded: true, code: 200, elapsed: 500 * ms, slowThreshold: time.Second, want: Operational},
		{name: "negative threshold uses default", succeeded: true, code: 200, elapsed: 1500 * ms, slowThreshold: -1, want: Operational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.succeeded, tt.code, tt.elapsed, tt.slowThreshold)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, Unknown, got, "the classifier must never produce unknown")
			for i := 0; i < 3; i++ {
				assert.Equal(t, got, Classify(tt.succeeded, tt.code, tt.elapsed, tt.slowThreshold), "classification must be stable")
			}
		})
	}
}

func TestSucceeded(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{code: 199, want: false},
		{code: 200, want: true},
		{code: 204, want: true},
		{code: 299, want: true},
		{code: 300, want: false},
		{code: 404, want: false},
		{code: 500, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Succeeded(tt.code), "code %d", tt.code)
	}
}

func TestCompletedAndUnreachable(t *testing.T) {
	ep := EndpointConfig{Environment: "Production", Region: "US", URL: "https://us.api.example.com"}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("5xx keeps its response time", func(t *testing.T) {
		got := Completed(ep, 503, 120*time.Millisecond, 0, now)
		assert.Equal(t, Outage, got.Status)
		if assert.NotNil(t, got.ResponseTime) {
			assert.Equal(t, 120*time.Millisecond, *got.ResponseTime)
		}
		assert.Equal(t, "US", got.Region)
		assert.Equal(t, ep.URL, got.URL)
		assert.Equal(t, now, got.LastChecked)
	})

	t.Run("unreachable has no response time", func(t *testing.T) {
		got := Unreachable(ep, now)
		assert.Equal(t, Outage, got.Status)
		assert.Nil(t, got.ResponseTime)
		assert.Equal(t, now, got.LastChecked)
	})

	t.Run("undetermined is unknown without response time", func(t *testing.T) {
		got := Undetermined(ep, now)
		assert.Equal(t, Unknown, got.Status)
		assert.Nil(t, got.ResponseTime)
	})
}

func TestStatus_Severity(t *testing.T) {
	assert.Greater(t, Outage.Severity(), Degraded.Severity())
	assert.Greater(t, Degraded.Severity(), Unknown.Severity())
	assert.Greater(t, Unknown.Severity(), Operational.Severity())
	assert.False(t, Status("broken").IsValid())
}
