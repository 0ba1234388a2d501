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

package metrics

import (
	"errors"
	"fmt"
)

// ErrMissingURL is returned when an exporting tracer has no collector url
var ErrMissingURL = errors.New("url is required for otlp exporter")

// Config holds the configuration for OpenTelemetry tracing
type Config struct {
	// Exporter is the exporter used to export the traces
	Exporter Exporter `yaml:"exporter" mapstructure:"exporter"`
	// Url is the address of the collector the traces are exported to
	Url string `yaml:"url" mapstructure:"url"`
	// Token is sent as bearer token to the collector
	Token string `yaml:"token" mapstructure:"token"`
	// CertPath is the path to a PEM file with the root certificates of the collector.
	// Empty or "insecure" disables TLS.
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
}

// Validate checks the tracing configuration
func (c *Config) Validate() error {
	if err := c.Exporter.Validate(); err != nil {
		return err
	}
	if c.Exporter.IsExporting() && c.Url == "" {
		return fmt.Errorf("%w %q", ErrMissingURL, c.Exporter)
	}
	return nil
}
