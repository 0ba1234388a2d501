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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/api"
	"github.com/caas-team/statusboard/pkg/status"
)

const (
	// defaultCheckTimeout is used when an on-demand check does not name a timeout
	defaultCheckTimeout = 10 * time.Second
	// maxCheckTimeout bounds the timeout a caller may request
	maxCheckTimeout = 60 * time.Second
	// maxCheckBody bounds the size of an on-demand check request
	maxCheckBody = 1 << 20
)

type encoder interface {
	Encode(v any) error
}

func (s *Statusboard) routes() []api.Route {
	return []api.Route{
		{Path: "/api/status", Method: http.MethodGet, Handler: s.handleStatus},
		{Path: "/api/check", Method: http.MethodPost, Handler: s.handleCheck},
		{Path: "/api/check", Method: http.MethodOptions, Handler: api.Preflight},
		{Path: "/health", Method: http.MethodGet, Handler: handleHealth},
		{Path: "/openapi", Method: http.MethodGet, Handler: s.handleOpenAPI},
		{
			Path: "/metrics", Method: "Handle",
			Handler: promhttp.HandlerFor(
				s.metrics.GetRegistry(),
				promhttp.HandlerOpts{Registry: s.metrics.GetRegistry()},
			).ServeHTTP,
		},
	}
}

// handleStatus serves the latest published snapshot
func (s *Statusboard) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	snap, ok, err := s.store.Latest(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read latest snapshot", "error", err)
		api.WriteError(ctx, w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	if !ok {
		api.WriteError(ctx, w, http.StatusServiceUnavailable, "Status not yet available")
		return
	}
	api.WriteJSON(ctx, w, http.StatusOK, snap)
}

// handleCheck probes the endpoints of the request on demand and answers
// with one result per endpoint in request order
func (s *Statusboard) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeCheckRequest(http.MaxBytesReader(w, r.Body, maxCheckBody))
	if err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, errEndpointsRequired) {
			msg = "Invalid request: endpoints array required"
		}
		api.WriteError(ctx, w, http.StatusBadRequest, msg)
		return
	}

	timeout := defaultCheckTimeout
	if req.Timeout > 0 {
		timeout = time.Duration(min(req.Timeout, maxCheckTimeout.Milliseconds())) * time.Millisecond
	}

	results := s.adhoc.Probe(ctx, req.Endpoints, timeout)
	w.Header().Set("Cache-Control", "no-cache")
	api.WriteJSON(ctx, w, http.StatusOK, results)
}

var errEndpointsRequired = errors.New("endpoints array required")

// decodeCheckRequest decodes a check request. A body that is valid json
// but carries no endpoints array yields errEndpointsRequired.
func decodeCheckRequest(body io.Reader) (status.CheckRequest, error) {
	var raw any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return status.CheckRequest{}, err
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return status.CheckRequest{}, errEndpointsRequired
	}
	list, ok := obj["endpoints"].([]any)
	if !ok {
		return status.CheckRequest{}, errEndpointsRequired
	}

	b, err := json.Marshal(list)
	if err != nil {
		return status.CheckRequest{}, err
	}
	endpoints := make([]status.EndpointConfig, 0, len(list))
	if err := json.Unmarshal(b, &endpoints); err != nil {
		return status.CheckRequest{}, errEndpointsRequired
	}

	req := status.CheckRequest{Endpoints: endpoints}
	if t, ok := obj["timeout"].(float64); ok {
		// json numbers may exceed the int64 range
		req.Timeout = int64(max(min(t, float64(maxCheckTimeout.Milliseconds())), 0))
	}
	return req, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOpenAPI serves the openapi document as yaml,
// or as json if requested by the Accept header
func (s *Statusboard) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	doc, err := api.OpenAPI(ctx, s.version)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create openapi", "error", err)
		api.WriteError(ctx, w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	var marshaler encoder
	switch r.Header.Get("Accept") {
	case "application/json":
		w.Header().Add("Content-Type", "application/json")
		marshaler = json.NewEncoder(w)
	default:
		w.Header().Add("Content-Type", "text/yaml")
		marshaler = yaml.NewEncoder(w)
	}

	if err := marshaler.Encode(doc); err != nil {
		log.ErrorContext(ctx, "Failed to marshal openapi", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
