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

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/status"
)

const (
	statusPath = "/api/status"
	checkPath  = "/api/check"
)

// ErrUnexpectedStatus is returned when a remote answers with a non 2xx status code
type ErrUnexpectedStatus struct {
	Code int
}

func (e ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("backend returned %d", e.Code)
}

// ErrResultMismatch is returned when a proxy answers with a different amount of results than requested
var ErrResultMismatch = errors.New("proxy returned a different number of results than endpoints")

// Backend reads the snapshots published by a statusboard server
type Backend struct {
	baseURL string
	client  *http.Client
}

// NewBackend creates a client for the statusboard server at baseURL
func NewBackend(baseURL string, client *http.Client) *Backend {
	return &Backend{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

// FetchSnapshot returns the latest snapshot of the backend
func (b *Backend) FetchSnapshot(ctx context.Context) (status.Snapshot, error) {
	log := logger.FromContext(ctx).With("url", b.baseURL+statusPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+statusPath, http.NoBody)
	if err != nil {
		return status.Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	var snap status.Snapshot
	if err := do(b.client, req, &snap); err != nil {
		log.WarnContext(ctx, "Failed to fetch snapshot", "error", err)
		return status.Snapshot{}, err
	}
	return snap, nil
}

// Proxy delegates probes to a statusboard proxy
type Proxy struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewProxy creates a client for the proxy at baseURL
func NewProxy(baseURL string, client *http.Client) *Proxy {
	return &Proxy{baseURL: strings.TrimSuffix(baseURL, "/"), client: client, now: time.Now}
}

// Check asks the proxy to probe the endpoints. The results are in the order
// of endpoints. If the proxy cannot be used, every endpoint is reported as
// unknown so the overall status is not escalated by a broken proxy.
func (p *Proxy) Check(ctx context.Context, endpoints []status.EndpointConfig, timeout time.Duration) []status.RegionStatus {
	log := logger.FromContext(ctx).With("url", p.baseURL+checkPath)

	results, err := p.check(ctx, endpoints, timeout)
	if err != nil {
		log.WarnContext(ctx, "Proxy check failed, reporting endpoints as unknown", "error", err)
		at := p.now()
		results = make([]status.RegionStatus, len(endpoints))
		for i, ep := range endpoints {
			results[i] = status.Undetermined(ep, at)
		}
	}
	return results
}

func (p *Proxy) check(ctx context.Context, endpoints []status.EndpointConfig, timeout time.Duration) ([]status.RegionStatus, error) {
	body, err := json.Marshal(status.CheckRequest{
		Endpoints: endpoints,
		Timeout:   timeout.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+checkPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var results []status.RegionStatus
	if err := do(p.client, req, &results); err != nil {
		return nil, err
	}
	if len(results) != len(endpoints) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrResultMismatch, len(results), len(endpoints))
	}
	return results, nil
}

// do sends the request and decodes a successful json response into v
func do(client *http.Client, req *http.Request, v any) error {
	res, err := client.Do(req) //nolint:bodyclose // closed in defer below
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return ErrUnexpectedStatus{Code: res.StatusCode}
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
