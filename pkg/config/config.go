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
	"time"

	"github.com/caas-team/statusboard/internal/helper"
	"github.com/caas-team/statusboard/pkg/metrics"
	"github.com/caas-team/statusboard/pkg/store"
)

const (
	// DefaultInterval is the time between the start of two check cycles
	DefaultInterval = 30 * time.Second
	// DefaultTimeout is the maximum duration of a single probe
	DefaultTimeout = 10 * time.Second
	// DefaultAddress is the listening address of the api
	DefaultAddress = ":3001"
)

// Config is the run configuration of statusboard
type Config struct {
	Api     ApiConfig      `yaml:"api" mapstructure:"api"`
	Check   CheckConfig    `yaml:"check" mapstructure:"check"`
	Loader  LoaderConfig   `yaml:"loader" mapstructure:"loader"`
	Store   store.Config   `yaml:"store" mapstructure:"store"`
	Tracing metrics.Config `yaml:"tracing" mapstructure:"tracing"`
}

// ApiConfig is the configuration for the http api
type ApiConfig struct {
	ListeningAddress string `yaml:"address" mapstructure:"address"`
}

// CheckConfig is the configuration of the check cycles
type CheckConfig struct {
	// Interval is the time between two cycles
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// Timeout bounds every single probe
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// SlowThreshold is the response time above which a successful probe is degraded
	SlowThreshold time.Duration `yaml:"slowThreshold" mapstructure:"slowThreshold"`
	// Method is the request method of the probes, HEAD or GET
	Method string `yaml:"method" mapstructure:"method"`
}

// LoaderConfig is the configuration of the endpoint loader
type LoaderConfig struct {
	Type string           `yaml:"type" mapstructure:"type"`
	Http HttpLoaderConfig `yaml:"http" mapstructure:"http"`
	File FileLoaderConfig `yaml:"file" mapstructure:"file"`
}

// HttpLoaderConfig is the configuration
// for the specific http loader
type HttpLoaderConfig struct {
	Url      string             `yaml:"url" mapstructure:"url"`
	Token    string             `yaml:"token" mapstructure:"token"`
	Timeout  time.Duration      `yaml:"timeout" mapstructure:"timeout"`
	RetryCfg helper.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// FileLoaderConfig is the configuration
// for the specific file loader
type FileLoaderConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HasHttpLoader returns true if the endpoints are fetched from a remote url
func (c *Config) HasHttpLoader() bool {
	return c.Loader.Type == HttpLoaderType
}

// HasTracing returns true if traces are exported
func (c *Config) HasTracing() bool {
	return c.Tracing.Exporter != "" && c.Tracing.Exporter != metrics.NOOP
}
