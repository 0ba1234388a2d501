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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionStatus_JSON(t *testing.T) {
	checked := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rt := 1234 * time.Millisecond

	tests := []struct {
		name string
		in   RegionStatus
		want string
	}{
		{
			name: "completed probe",
			in:   RegionStatus{Region: "US", URL: "https://us.example.com", Status: Operational, ResponseTime: &rt, LastChecked: checked},
			want: `{"region":"US","url":"https://us.example.com","status":"operational","responseTime":1234,"lastChecked":"2024-05-01T12:00:00Z"}`,
		},
		{
			name: "probe that did not complete",
			in:   RegionStatus{Region: "EU", URL: "https://eu.example.com", Status: Outage, LastChecked: checked},
			want: `{"region":"EU","url":"https://eu.example.com","status":"outage","responseTime":null,"lastChecked":"2024-05-01T12:00:00Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))

			var got RegionStatus
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestSnapshot_JSON(t *testing.T) {
	snap := NewSnapshot(nil, nil, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lastUpdated":"2024-05-01T12:00:00Z","environments":[],"overallStatus":"operational"}`, string(b))
}

func TestStatus_UnmarshalText(t *testing.T) {
	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"degraded"`), &s))
	assert.Equal(t, Degraded, s)

	err := json.Unmarshal([]byte(`"sideways"`), &s)
	assert.True(t, errors.Is(err, ErrInvalidStatus), "got %v", err)
}

func TestEndpointConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		endpoint    EndpointConfig
		wantReasons []string
	}{
		{
			name:     "valid endpoint",
			endpoint: EndpointConfig{URL: "https://api.example.com", Environment: "Production", Region: "US"},
		},
		{
			name:        "missing url",
			endpoint:    EndpointConfig{Environment: "Production", Region: "US"},
			wantReasons: []string{"URL is required"},
		},
		{
			name:        "invalid url",
			endpoint:    EndpointConfig{URL: "not-a-valid-url", Environment: "Production", Region: "US"},
			wantReasons: []string{"Invalid URL format"},
		},
		{
			name:        "unsupported scheme",
			endpoint:    EndpointConfig{URL: "ftp://files.example.com", Environment: "Production", Region: "US"},
			wantReasons: []string{"Invalid URL format"},
		},
		{
			name:        "missing environment",
			endpoint:    EndpointConfig{URL: "https://api.example.com", Region: "US"},
			wantReasons: []string{"Environment is required"},
		},
		{
			name:        "missing region",
			endpoint:    EndpointConfig{URL: "https://api.example.com", Environment: "Production"},
			wantReasons: []string{"Region is required"},
		},
		{
			name:        "everything missing",
			endpoint:    EndpointConfig{},
			wantReasons: []string{"URL is required", "Environment is required", "Region is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.endpoint.Validate()
			if len(tt.wantReasons) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			joined, ok := err.(interface{ Unwrap() []error })
			require.True(t, ok, "expected joined errors, got %T", err)

			var reasons []string
			for _, e := range joined.Unwrap() {
				var inv ErrInvalidEndpoint
				require.True(t, errors.As(e, &inv))
				reasons = append(reasons, inv.Reason)
			}
			assert.Equal(t, tt.wantReasons, reasons)
		})
	}
}

func TestSnapshot_Clone(t *testing.T) {
	rt := 120 * time.Millisecond
	orig := Snapshot{
		LastUpdated: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Environments: []Environment{
			{Name: "Production", Regions: []RegionStatus{
				{Region: "EU", URL: "https://eu.example.com", Status: Operational, ResponseTime: &rt},
				{Region: "US", URL: "https://us.example.com", Status: Outage},
			}},
			{Name: "Staging", Regions: []RegionStatus{}},
		},
		OverallStatus: Outage,
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Environments[0].Name = "Changed"
	c.Environments[0].Regions[1].Status = Operational
	*c.Environments[0].Regions[0].ResponseTime = time.Hour
	c.Environments = append(c.Environments, Environment{Name: "Development"})

	assert.Equal(t, "Production", orig.Environments[0].Name)
	assert.Equal(t, Outage, orig.Environments[0].Regions[1].Status)
	assert.Equal(t, 120*time.Millisecond, *orig.Environments[0].Regions[0].ResponseTime)
	assert.Len(t, orig.Environments, 2)
	assert.NotNil(t, c.Environments[1].Regions, "empty regions stay empty, not nil")

	assert.Nil(t, Snapshot{}.Clone().Environments)
}
