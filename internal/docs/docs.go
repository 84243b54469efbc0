// Package docs serves the API documentation surfaces: an embedded
// OpenAPI 3 document plus the Swagger UI and ReDoc pages rendering it.
// The root and health endpoints are deliberately excluded from the
// document.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline-io/threadline/pkg/api"
)

//go:embed openapi.json
var openAPISpec []byte

//go:embed swagger.html
var swaggerPage []byte

//go:embed redoc.html
var redocPage []byte

// Register mounts the documentation routes on the router.
func Register(r *gin.Engine) {
	r.GET(api.EndpointOpenAPI, func(c *gin.Context) {
		c.Data(http.StatusOK, api.ContentTypeJSON, openAPISpec)
	})
	r.GET(api.EndpointDocs, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", swaggerPage)
	})
	r.GET(api.EndpointRedoc, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", redocPage)
	})
}

// OpenAPISpec exposes the embedded document for tests and tooling.
func OpenAPISpec() []byte {
	return openAPISpec
}
