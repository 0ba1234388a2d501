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
	"io"
	"net/http"

	"github.com/caas-team/statusboard/internal/helper"
	"github.com/caas-team/statusboard/internal/httpclient"
	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/status"
)

var _ Loader = (*HttpLoader)(nil)

// HttpLoader fetches the endpoints from a remote url.
// A failed request is retried as defined by the retry configuration.
type HttpLoader struct {
	cfg    HttpLoaderConfig
	client *http.Client
}

func NewHttpLoader(cfg HttpLoaderConfig) *HttpLoader {
	return &HttpLoader{
		cfg:    cfg,
		client: httpclient.New("", cfg.Timeout),
	}
}

// Load gets the endpoints from the remote url
func (hl *HttpLoader) Load(ctx context.Context) ([]status.EndpointConfig, error) {
	log := logger.FromContext(ctx)

	var endpoints []status.EndpointConfig
	getEndpointsRetry := helper.Retry(func(ctx context.Context) error {
		var err error
		endpoints, err = hl.getEndpoints(ctx)
		return err
	}, hl.cfg.RetryCfg)

	if err := getEndpointsRetry(ctx); err != nil {
		log.WarnContext(ctx, "Could not get remote endpoints", "url", hl.cfg.Url, "error", err)
		return nil, err
	}

	log.DebugContext(ctx, "Successfully got remote endpoints", "amount", len(endpoints))
	return endpoints, nil
}

func (hl *HttpLoader) getEndpoints(ctx context.Context) ([]status.EndpointConfig, error) {
	log := logger.FromContext(ctx).With("url", hl.cfg.Url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hl.cfg.Url, http.NoBody)
	if err != nil {
		log.ErrorContext(ctx, "Could not create http GET request", "error", err)
		return nil, err
	}
	if hl.cfg.Token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", hl.cfg.Token))
	}

	res, err := hl.client.Do(req) //nolint:bodyclose
	if err != nil {
		log.ErrorContext(ctx, "Http get request failed", "error", err)
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		if cErr := Body.Close(); cErr != nil {
			log.ErrorContext(ctx, "Failed to close response body", "error", cErr)
		}
	}(res.Body)

	if res.StatusCode != http.StatusOK {
		log.ErrorContext(ctx, "Http get request failed", "status", res.Status)
		return nil, fmt.Errorf("request failed, status is %s", res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.ErrorContext(ctx, "Could not read response body", "error", err)
		return nil, err
	}

	return parseEndpoints(ctx, body)
}
