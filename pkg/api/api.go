// Package api defines the public API endpoints and wire constants for the
// threadline server.
package api

// API version
const Version = "1.0.0"

// DefaultPrefix is the versioned route prefix.
const DefaultPrefix = "/api/v1"

// API endpoints
const (
	EndpointRoot      = "/"
	EndpointHealth    = "/health"
	EndpointAPIHealth = "/health" // relative to the versioned prefix
	EndpointProducts  = "/products"
	EndpointOrders    = "/orders"

	// Documentation surfaces.
	EndpointDocs    = "/api/docs"
	EndpointRedoc   = "/api/redoc"
	EndpointOpenAPI = "/api/openapi.json"
)

// HTTP headers
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
)

// Content types
const (
	ContentTypeJSON = "application/json"
)
