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

package config

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/caas-team/statusboard/internal/helper"
	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/status"
)

const (
	// FileLoaderType reads the endpoints from a local yaml file
	FileLoaderType = "file"
	// HttpLoaderType fetches the endpoints from a remote url
	HttpLoaderType = "http"
)

// Loader provides the list of endpoints to probe.
// It is invoked once at the start of every check cycle.
type Loader interface {
	Load(ctx context.Context) ([]status.EndpointConfig, error)
}

// NewLoader creates the loader selected by the configuration
func NewLoader(cfg LoaderConfig) (Loader, error) {
	switch cfg.Type {
	case FileLoaderType:
		return NewFileLoader(cfg.File), nil
	case HttpLoaderType:
		return NewHttpLoader(cfg.Http), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLoaderType, cfg.Type)
	}
}

// endpointsDocument is the layout of an endpoint file
type endpointsDocument struct {
	Endpoints []status.EndpointConfig `mapstructure:"endpoints"`
}

// parseEndpoints decodes and validates an endpoint document.
// The order of the endpoints is kept.
func parseEndpoints(ctx context.Context, b []byte) ([]status.EndpointConfig, error) {
	log := logger.FromContext(ctx)

	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		log.ErrorContext(ctx, "Failed to parse endpoints", "error", err)
		return nil, fmt.Errorf("failed to parse endpoints: %w", err)
	}

	doc, err := helper.Decode[endpointsDocument](raw)
	if err != nil {
		log.ErrorContext(ctx, "Failed to decode endpoints", "error", err)
		return nil, fmt.Errorf("failed to decode endpoints: %w", err)
	}

	for i, ep := range doc.Endpoints {
		if err := ep.Validate(); err != nil {
			log.ErrorContext(ctx, "Invalid endpoint", "index", i, "error", err)
			return nil, fmt.Errorf("endpoint %d: %w", i, err)
		}
	}

	if doc.Endpoints == nil {
		return []status.EndpointConfig{}, nil
	}
	return doc.Endpoints, nil
}
