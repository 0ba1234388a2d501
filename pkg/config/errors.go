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
	"errors"
	"fmt"
)

var (
	// ErrInvalidCheckInterval is returned when the check interval is not above the probe timeout
	ErrInvalidCheckInterval = errors.New("invalid check interval")
	// ErrInvalidCheckTimeout is returned when the probe timeout is not positive
	ErrInvalidCheckTimeout = errors.New("invalid check timeout")
	// ErrInvalidSlowThreshold is returned when the slow threshold is not positive
	ErrInvalidSlowThreshold = errors.New("invalid slow threshold")
	// ErrInvalidCheckMethod is returned when the probe method is neither HEAD nor GET
	ErrInvalidCheckMethod = errors.New("invalid check method")
	// ErrInvalidLoaderType is returned when the loader type is unknown
	ErrInvalidLoaderType = errors.New("invalid loader type")
	// ErrInvalidLoaderHttpURL is returned when the loader http url is invalid
	ErrInvalidLoaderHttpURL = errors.New("invalid loader http url")
	// ErrInvalidLoaderHttpRetryCount is returned when the loader http retry count is invalid
	ErrInvalidLoaderHttpRetryCount = errors.New("invalid loader http retry count")
	// ErrInvalidLoaderFilePath is returned when the loader file path is invalid
	ErrInvalidLoaderFilePath = errors.New("invalid loader file path")
)

// ErrInvalidConfig is returned when a single configuration field fails validation
type ErrInvalidConfig struct {
	Field  string
	Reason string
	Err    error
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

func (e ErrInvalidConfig) Unwrap() error {
	return e.Err
}
