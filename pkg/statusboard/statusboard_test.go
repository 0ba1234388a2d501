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

package statusboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caas-team/statusboard/pkg/config"
	"github.com/caas-team/statusboard/pkg/metrics"
	"github.com/caas-team/statusboard/pkg/probe"
	"github.com/caas-team/statusboard/pkg/status"
	"github.com/caas-team/statusboard/pkg/store"
)

func testConfig(address, endpointsFile string) *config.Config {
	return &config.Config{
		Api: config.ApiConfig{ListeningAddress: address},
		Check: config.CheckConfig{
			Interval:      time.Hour,
			Timeout:       time.Second,
			SlowThreshold: 2 * time.Second,
			Method:        http.MethodHead,
		},
		Loader: config.LoaderConfig{
			Type: config.FileLoaderType,
			File: config.FileLoaderConfig{Path: endpointsFile},
		},
		Store:   store.Config{Type: store.MEMORY},
		Tracing: metrics.Config{Exporter: metrics.NOOP},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *config.Config)
		wantErr error
	}{
		{
			name:   "valid config",
			modify: func(c *config.Config) {},
		},
		{
			name:    "unsupported probe method",
			modify:  func(c *config.Config) { c.Check.Method = http.MethodPost },
			wantErr: probe.ErrUnsupportedMethod,
		},
		{
			name:    "unknown store",
			modify:  func(c *config.Config) { c.Store.Type = "etcd" },
			wantErr: store.ErrUnknownType,
		},
		{
			name:    "unknown loader",
			modify:  func(c *config.Config) { c.Loader.Type = "s3" },
			wantErr: config.ErrInvalidLoaderType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(config.DefaultAddress, "endpoints.yaml")
			tt.modify(cfg)

			s, err := New(cfg, "v0.0.0-test")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "v0.0.0-test", s.version)
			assert.NotNil(t, s.scheduler)
		})
	}
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "statusboard/v1.2.3", UserAgent("v1.2.3"))
}

// freeAddress returns a local address that is free at the time of the call
func freeAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestStatusboard_Run(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	file := filepath.Join(t.TempDir(), "endpoints.yaml")
	doc := fmt.Sprintf(`endpoints:
  - environment: Production
    region: EU
    url: %[1]s/up
  - environment: Production
    region: US
    url: %[1]s/down
`, backend.URL)
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o600))

	addr := freeAddress(t)
	s, err := New(testConfig(addr, file), "v0.0.0-test")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errC := make(chan error, 1)
	go func() { errC <- s.Run(ctx) }()

	base := "http://" + addr
	var snap status.Snapshot
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/status") //nolint:noctx // test
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		return json.NewDecoder(resp.Body).Decode(&snap) == nil
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, status.Outage, snap.OverallStatus)
	require.Len(t, snap.Environments, 1)
	require.Len(t, snap.Environments[0].Regions, 2)
	assert.Equal(t, status.Operational, snap.Environments[0].Regions[0].Status)
	assert.Equal(t, status.Outage, snap.Environments[0].Regions[1].Status)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(base + "/health") //nolint:noctx // test
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodOptions, base+"/api/check", http.NoBody)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(base + "/metrics") //nolint:noctx // test
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "statusboard_endpoint_status")
		assert.Contains(t, string(body), "statusboard_cycles_total")
	})

	t.Run("method not allowed", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, base+"/api/status", http.NoBody)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	cancel()
	select {
	case err := <-errC:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestStatusboard_handleCheck_KeepsMetricsUntouched(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	s, err := New(testConfig(config.DefaultAddress, "endpoints.yaml"), "v0.0.0-test")
	require.NoError(t, err)
	require.NoError(t, s.registerMetrics())
	reg := s.metrics.GetRegistry()
	endpointMetrics := []string{
		"statusboard_endpoint_status",
		"statusboard_endpoint_response_seconds",
		"statusboard_endpoint_probes_total",
	}

	configured := status.EndpointConfig{Environment: "Production", Region: "EU", URL: backend.URL + "/configured"}
	s.prober.Probe(context.Background(), configured, time.Second)
	before, err := testutil.GatherAndCount(reg, endpointMetrics...)
	require.NoError(t, err)
	require.Equal(t, 3, before, "the scheduled prober records one series per metric")

	entries := make([]string, 0, 50)
	for i := range 50 {
		entries = append(entries, fmt.Sprintf(`{"environment": "Production", "region": "EU", "url": "%s/adhoc/%d"}`, backend.URL, i))
	}
	body := `{"endpoints": [` + strings.Join(entries, ",") + `], "timeout": 1000}`
	rec := httptest.NewRecorder()
	s.handleCheck(rec, httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	after, err := testutil.GatherAndCount(reg, endpointMetrics...)
	require.NoError(t, err)
	assert.Equal(t, before, after, "on demand checks must not add series to the served registry")
}
