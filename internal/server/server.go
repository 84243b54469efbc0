// Package server wires the threadline HTTP API: routing, middleware,
// request handlers, and graceful shutdown.
package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/threadline-io/threadline/internal/config"
	"github.com/threadline-io/threadline/internal/docs"
	"github.com/threadline-io/threadline/internal/observability"
	"github.com/threadline-io/threadline/internal/services"
	"github.com/threadline-io/threadline/internal/storage"
	"github.com/threadline-io/threadline/pkg/api"
	"github.com/threadline-io/threadline/pkg/models"
)

// Server is the threadline API server.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *gin.Engine
	http   *http.Server
}

// New assembles the server: middleware, documentation mounts, and the
// versioned API routes, backed by the given repositories.
func New(cfg *config.Config, logger *zap.Logger, products storage.ProductRepository, orders storage.OrderRepository) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(observability.RequestID())
	engine.Use(observability.RequestLogger(logger))
	engine.Use(cors.New(corsConfig(cfg.CORS)))

	s := &Server{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		http: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}

	productSvc := services.NewProductService(products)
	orderSvc := services.NewOrderService(orders, products)
	s.routes(productSvc, orderSvc)
	return s
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.Origins) == 1 && cfg.Origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.Origins
		c.AllowCredentials = true
	}
	c.AllowHeaders = append(c.AllowHeaders, api.HeaderRequestID)
	return c
}

func (s *Server) routes(productSvc *services.ProductService, orderSvc *services.OrderService) {
	s.engine.GET(api.EndpointRoot, s.handleRoot)
	s.engine.GET(api.EndpointHealth, s.handleHealth)
	docs.Register(s.engine)

	ph := &productHandler{svc: productSvc}
	oh := &orderHandler{svc: orderSvc}

	v1 := s.engine.Group(s.cfg.API.Prefix)
	v1.GET(api.EndpointAPIHealth, s.handleAPIHealth)

	v1.POST(api.EndpointProducts, ph.create)
	v1.GET(api.EndpointProducts, ph.list)
	v1.GET(api.EndpointProducts+"/:product_id", ph.get)
	v1.PUT(api.EndpointProducts+"/:product_id", ph.update)
	v1.DELETE(api.EndpointProducts+"/:product_id", ph.remove)

	v1.POST(api.EndpointOrders, oh.create)
	v1.GET(api.EndpointOrders, oh.list)
	v1.GET(api.EndpointOrders+"/:order_id", oh.get)
	v1.PATCH(api.EndpointOrders+"/:order_id", oh.update)
	v1.DELETE(api.EndpointOrders+"/:order_id", oh.cancel)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NotFoundError",
			Message: "route not found",
			Path:    c.Request.URL.Path,
		})
	})
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, models.RootResponse{
		Message:        "Welcome to " + s.cfg.API.ProjectName,
		Version:        s.cfg.API.Version,
		DocsURL:        api.EndpointDocs,
		HealthEndpoint: api.EndpointHealth,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "healthy"})
}

func (s *Server) handleAPIHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Message: "API is running"})
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.WriteTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
