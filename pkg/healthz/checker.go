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

package healthz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/caas-team/statusboard/internal/logger"
)

// Checker checks the health of a running statusboard
type Checker interface {
	// CheckOverallHealth returns true if the api and the metrics endpoint answer
	CheckOverallHealth(ctx context.Context) bool
	// IsReady returns true once the first snapshot has been published
	IsReady(ctx context.Context) bool
}

// checker is used to check the health of the statusboard's endpoints
type checker struct {
	addr   string
	client *http.Client
}

// New creates a new healthz checker
// address is the listening address of the API
func New(address string, client *http.Client) Checker {
	if client == nil {
		client = &http.Client{}
	}
	return &checker{
		addr:   formatAddress(address),
		client: client,
	}
}

func (c *checker) CheckOverallHealth(ctx context.Context) bool {
	return c.isApiHealthy(ctx) && c.isMetricsHealthy(ctx)
}

func (c *checker) IsReady(ctx context.Context) bool {
	code, _, ok := c.get(ctx, "/api/status")
	return ok && code == http.StatusOK
}

// isApiHealthy checks if the health endpoint reports ok
func (c *checker) isApiHealthy(ctx context.Context) bool {
	code, body, ok := c.get(ctx, "/health")
	if !ok || code != http.StatusOK {
		return false
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "Failed to decode health response", "error", err)
		return false
	}
	return health.Status == "ok"
}

// isMetricsHealthy checks if the metrics endpoint is healthy
func (c *checker) isMetricsHealthy(ctx context.Context) bool {
	code, _, ok := c.get(ctx, "/metrics")
	return ok && code == http.StatusOK
}

// get requests the given path and returns the status code and body.
// ok is false if the request could not be sent.
func (c *checker) get(ctx context.Context, path string) (code int, body []byte, ok bool) {
	log := logger.FromContext(ctx).With("path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s%s", c.addr, path), http.NoBody)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create request", "error", err)
		return 0, nil, false
	}

	resp, err := c.client.Do(req) //nolint:bodyclose // closed in defer
	if err != nil {
		log.ErrorContext(ctx, "Failed to send request", "error", err)
		return 0, nil, false
	}
	defer func(b io.ReadCloser) {
		err = b.Close()
		if err != nil {
			log.ErrorContext(ctx, "Failed to close response body", "error", err)
		}
	}(resp.Body)

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read response body", "error", err)
		return resp.StatusCode, nil, false
	}
	return resp.StatusCode, body, true
}

// formatAddress turns a listening address into an address to connect to
func formatAddress(addr string) string {
	if addr == "localhost" || addr == "127.0.0.1" || addr == net.IPv6loopback.String() {
		return addr
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort("localhost", "3001")
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	return net.JoinHostPort(host, port)
}
