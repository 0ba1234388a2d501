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

package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/caas-team/statusboard/internal/logger"
)

type client struct{}

// New creates an http.Client with the given overall timeout whose requests
// carry the given User-Agent header. A zero timeout leaves the client unbounded;
// callers are then expected to bound requests through their context.
func New(userAgent string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{agent: userAgent},
	}
}

// userAgentTransport sets the User-Agent header on every outgoing request
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		// resolved per request so test transports swapped into the default are honored
		next = http.DefaultTransport
	}
	if t.agent == "" || req.Header.Get("User-Agent") != "" {
		return next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.agent)
	return next.RoundTrip(r)
}

// IntoContext embeds the provided http.Client into the given context and returns the modified context.
// This function is used for passing http clients through context, allowing for easier request handling and client management.
func IntoContext(ctx context.Context, c *http.Client) context.Context {
	return context.WithValue(ctx, client{}, c)
}

// FromContext extracts the http.Client from the provided context.
// If the context does not have a client it returns http.DefaultClient.
func FromContext(ctx context.Context) *http.Client {
	if ctx != nil {
		if c, ok := ctx.Value(client{}).(*http.Client); ok && c != nil {
			return c
		}
	}

	logger.FromContext(ctx).Warn("No http.Client found in context; using http.DefaultClient")
	return http.DefaultClient
}
