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
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/caas-team/statusboard/internal/logger"
)

// Validate validates the run configuration.
// All violations are logged and returned joined.
func (c *Config) Validate(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	var errs []error
	invalid := func(field, reason string, err error) {
		log.ErrorContext(ctx, "Invalid configuration", "field", field, "reason", reason)
		errs = append(errs, ErrInvalidConfig{Field: field, Reason: reason, Err: err})
	}

	if c.Check.Timeout <= 0 {
		invalid("check.timeout", "must be above 0", ErrInvalidCheckTimeout)
	}
	if c.Check.Interval <= c.Check.Timeout {
		invalid("check.interval", fmt.Sprintf("must be above the check timeout of %s", c.Check.Timeout), ErrInvalidCheckInterval)
	}
	if c.Check.SlowThreshold <= 0 {
		invalid("check.slowThreshold", "must be above 0", ErrInvalidSlowThreshold)
	}
	switch c.Check.Method {
	case http.MethodHead, http.MethodGet:
	default:
		invalid("check.method", fmt.Sprintf("must be HEAD or GET, got %q", c.Check.Method), ErrInvalidCheckMethod)
	}

	switch c.Loader.Type {
	case FileLoaderType:
		if c.Loader.File.Path == "" {
			invalid("loader.file.path", "must not be empty", ErrInvalidLoaderFilePath)
		}
	case HttpLoaderType:
		if u, err := url.ParseRequestURI(c.Loader.Http.Url); err != nil || u.Host == "" {
			invalid("loader.http.url", "is not a valid url", ErrInvalidLoaderHttpURL)
		}
		if c.Loader.Http.RetryCfg.Count < 0 || c.Loader.Http.RetryCfg.Count > 5 {
			invalid("loader.http.retry.count", "must be between 0 and 5", ErrInvalidLoaderHttpRetryCount)
		}
	default:
		invalid("loader.type", fmt.Sprintf("unknown loader %q", c.Loader.Type), ErrInvalidLoaderType)
	}

	if err := c.Store.Validate(); err != nil {
		invalid("store", err.Error(), err)
	}
	if err := c.Tracing.Validate(); err != nil {
		invalid("tracing", err.Error(), err)
	}

	return errors.Join(errs...)
}
