// Package fallback synthesizes and serves a minimal stand-in service
// definition. The deploy pipeline always writes the definition so that a
// host has something runnable even when the full application cannot start.
package fallback

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/threadline-io/threadline/pkg/api"
	"github.com/threadline-io/threadline/pkg/models"
)

// FileName is the definition's location relative to the deploy root.
const FileName = "fallback.yaml"

// Route is a static JSON endpoint in the fallback service.
type Route struct {
	Method string                 `yaml:"method"`
	Path   string                 `yaml:"path"`
	Body   map[string]interface{} `yaml:"body"`
}

// Definition describes the fallback service: metadata, documentation
// mount points, CORS policy, and the static routes it answers.
type Definition struct {
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	DocsURL         string   `yaml:"docs_url"`
	RedocURL        string   `yaml:"redoc_url"`
	OpenAPIURL      string   `yaml:"openapi_url"`
	CORSOrigins     []string `yaml:"cors_origins"`
	CORSMethods     []string `yaml:"cors_methods"`
	CORSHeaders     []string `yaml:"cors_headers"`
	CORSCredentials bool     `yaml:"cors_credentials"`
	Routes          []Route  `yaml:"routes"`
}

// Default returns the definition the deploy pipeline writes. The CORS
// policy is fully open: all origins, methods, and headers, with
// credentials permitted.
func Default() Definition {
	return Definition{
		Title:           "Threadline Commerce API",
		Description:     "A e-commerce API built for managing an online clothing store",
		DocsURL:         api.EndpointDocs,
		RedocURL:        api.EndpointRedoc,
		OpenAPIURL:      api.EndpointOpenAPI,
		CORSOrigins:     []string{"*"},
		CORSMethods:     []string{"*"},
		CORSHeaders:     []string{"*"},
		CORSCredentials: true,
		Routes: []Route{
			{
				Method: "GET",
				Path:   "/",
				Body: map[string]interface{}{
					"message":         "Welcome to Threadline Commerce API",
					"docs_url":        api.EndpointDocs,
					"health_endpoint": api.EndpointHealth,
				},
			},
			{
				Method: "GET",
				Path:   api.EndpointHealth,
				Body: map[string]interface{}{
					"status": "healthy",
				},
			},
		},
	}
}

// Synthesize writes the default definition under root, overwriting any
// previous copy. It returns the written path.
func Synthesize(root string) (string, error) {
	path := filepath.Join(root, FileName)
	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshal fallback definition: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write fallback definition: %w", err)
	}
	return path, nil
}

// Load reads a definition written by Synthesize.
func Load(path string) (Definition, error) {
	var def Definition
	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read fallback definition: %w", err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("parse fallback definition: %w", err)
	}
	return def, nil
}

// Router builds a gin engine serving the definition's static routes.
func Router(def Definition) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     def.CORSMethods,
		AllowHeaders:     def.CORSHeaders,
		AllowCredentials: def.CORSCredentials,
	}
	if len(def.CORSOrigins) == 1 && def.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = def.CORSOrigins
	}
	r.Use(cors.New(corsConfig))

	for _, rt := range def.Routes {
		body := rt.Body
		r.Handle(rt.Method, rt.Path, func(c *gin.Context) {
			c.JSON(200, body)
		})
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, models.ErrorResponse{
			Error:   "NotFoundError",
			Message: "route not found",
			Path:    c.Request.URL.Path,
		})
	})

	return r
}
