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
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/status"
)

func newDocument(version string) openapi3.T {
	return openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Statusboard API",
			Description: "Serves the aggregated health of the configured endpoints",
			Version:     version,
			Contact: &openapi3.Contact{
				URL:   "https://caas.telekom.de",
				Email: "caas-request@telekom.de",
				Name:  "CaaS Team",
			},
		},
		Paths:      make(openapi3.Paths),
		Extensions: make(map[string]any),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
		Servers: openapi3.Servers{},
	}
}

func schemaFor(name string, v any) (*openapi3.SchemaRef, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(v, openapi3.Schemas{})
	if err != nil {
		return nil, &ErrCreateOpenapiSchema{name: name, err: err}
	}
	return ref, nil
}

// regionSchema describes a RegionStatus as it is encoded on the wire
func regionSchema() *openapi3.SchemaRef {
	return openapi3.NewObjectSchema().
		WithProperty("region", openapi3.NewStringSchema()).
		WithProperty("url", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewStringSchema().WithEnum(
			status.Operational.String(), status.Degraded.String(), status.Outage.String(), status.Unknown.String(),
		)).
		WithProperty("responseTime", openapi3.NewIntegerSchema().WithNullable()).
		WithProperty("lastChecked", openapi3.NewDateTimeSchema()).
		NewRef()
}

func jsonResponse(desc string, ref *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchemaRef(ref),
	}
}

// OpenAPI generates the OpenAPI document of the status and check routes
func OpenAPI(ctx context.Context, version string) (openapi3.T, error) {
	log := logger.FromContext(ctx)
	doc := newDocument(version)

	errRef, err := schemaFor("error", ErrorResponse{})
	if err != nil {
		log.ErrorContext(ctx, "Failed to create schema", "error", err)
		return openapi3.T{}, err
	}
	endpointRef, err := schemaFor("endpoint", status.EndpointConfig{})
	if err != nil {
		log.ErrorContext(ctx, "Failed to create schema", "error", err)
		return openapi3.T{}, err
	}

	region := regionSchema()
	environment := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithPropertyRef("regions", openapi3.NewArraySchema().WithItems(region.Value).NewRef())
	snapshot := openapi3.NewObjectSchema().
		WithProperty("lastUpdated", openapi3.NewDateTimeSchema()).
		WithPropertyRef("environments", openapi3.NewArraySchema().WithItems(environment).NewRef()).
		WithPropertyRef("overallStatus", region.Value.Properties["status"])
	request := openapi3.NewObjectSchema().
		WithPropertyRef("endpoints", openapi3.NewArraySchema().WithItems(endpointRef.Value).NewRef()).
		WithProperty("timeout", openapi3.NewIntegerSchema().WithMin(0))
	request.Required = []string{"endpoints"}

	doc.Components.Schemas["RegionStatus"] = region
	doc.Components.Schemas["Snapshot"] = snapshot.NewRef()
	doc.Components.Schemas["CheckRequest"] = request.NewRef()
	doc.Components.Schemas["Error"] = errRef

	doc.Paths["/api/status"] = &openapi3.PathItem{
		Description: "status",
		Get: &openapi3.Operation{
			Description: "Returns the snapshot of the latest completed check cycle",
			Tags:        []string{"Status"},
			Responses: openapi3.Responses{
				fmt.Sprint(http.StatusOK):                 jsonResponse("Latest snapshot", snapshot.NewRef()),
				fmt.Sprint(http.StatusServiceUnavailable): jsonResponse("No cycle has completed yet", errRef),
			},
		},
	}
	doc.Paths["/api/check"] = &openapi3.PathItem{
		Description: "check",
		Post: &openapi3.Operation{
			Description: "Probes the given endpoints and returns one result per endpoint in request order",
			Tags:        []string{"Check"},
			RequestBody: &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(request.NewRef()),
			},
			Responses: openapi3.Responses{
				fmt.Sprint(http.StatusOK):         jsonResponse("Results in request order", openapi3.NewArraySchema().WithItems(region.Value).NewRef()),
				fmt.Sprint(http.StatusBadRequest): jsonResponse("Malformed request", errRef),
			},
		},
	}

	return doc, nil
}
