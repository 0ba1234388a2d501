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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/config"
)

type API interface {
	Run(ctx context.Context) error
	Shutdown(ctx context.Context) error
	RegisterRoutes(ctx context.Context, routes ...Route) error
}

type api struct {
	server *http.Server
	router chi.Router
}

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// New creates a new api
func New(cfg config.ApiConfig) API {
	r := chi.NewRouter()
	return &api{
		server: &http.Server{Addr: cfg.ListeningAddress, Handler: r, ReadHeaderTimeout: readHeaderTimeout},
		router: r,
	}
}

// Run serves the api.
// Blocks until context is done
func (a *api) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	cErr := make(chan error, 1)

	if len(a.router.Routes()) == 0 {
		return ErrNoRoutes
	}

	go func(cErr chan error) {
		defer close(cErr)
		log.InfoContext(ctx, "Serving Api", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil {
			cErr <- err
		}
	}(cErr)

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed serving API: %w", ctx.Err())
	case err := <-cErr:
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			log.InfoContext(ctx, "Api server closed")
			return nil
		}
		log.ErrorContext(ctx, "Failed serving API", "error", err)
		return fmt.Errorf("failed serving API: %w", err)
	}
}

// Shutdown gracefully shuts down the api server
// Returns an error if an error is present in the context
// or if the server cannot be shut down
func (a *api) Shutdown(ctx context.Context) error {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := a.server.Shutdown(shutdownCtx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to shutdown api server", "error", err)
		return fmt.Errorf("failed shutting down API: %w", errors.Join(errC, err))
	}
	return errC
}

type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

// RegisterRoutes sets up all endpoint handlers for the given routes.
// Every response carries the CORS headers.
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	a.router.Use(logger.Middleware(ctx), CORS)
	for _, route := range routes {
		switch route.Method {
		case http.MethodGet:
			a.router.Get(route.Path, route.Handler)
		case http.MethodPost:
			a.router.Post(route.Path, route.Handler)
		case http.MethodOptions:
			a.router.Options(route.Path, route.Handler)
		case "Handle":
			a.router.Handle(route.Path, route.Handler)
		default:
			return ErrUnsupportedMethod{Path: route.Path, Method: route.Method}
		}
	}

	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, http.StatusNotFound, "Not found")
	})
	a.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return nil
}

// ErrorResponse is the body of every error answered by the api
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes v as json with the given status code
func WriteJSON(ctx context.Context, w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to write response", "error", err)
	}
}

// WriteError writes an ErrorResponse with the given status code
func WriteError(ctx context.Context, w http.ResponseWriter, code int, msg string) {
	WriteJSON(ctx, w, code, ErrorResponse{Error: msg})
}
