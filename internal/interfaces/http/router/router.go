// Package router assembles the stub storefront API.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/weblarek/storefront/internal/infrastructure/logger"
	"github.com/weblarek/storefront/internal/interfaces/http/handler"
	"github.com/weblarek/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// DefaultBasePath mirrors the path prefix of the public storefront API
const DefaultBasePath = "/api/weblarek"

// DefaultMaxBodyBytes limits POST bodies
const DefaultMaxBodyBytes = 1 << 20

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	basePath   string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithBasePath sets the path prefix of every route
func WithBasePath(path string) RouterOption {
	return func(r *Router) {
		r.basePath = path
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		basePath:   DefaultBasePath,
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.basePath)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Config configures the stub engine
type Config struct {
	BasePath     string
	MaxBodyBytes int64
	Tracing      middleware.TracingConfig
}

// NewEngine builds the complete stub API around store
func NewEngine(cfg Config, store *handler.Store, log *zap.Logger) (*gin.Engine, error) {
	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	engine := gin.New()
	engine.Use(logger.Recovery(log), logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	engine.Use(middleware.CORS(), middleware.BodyLimit(cfg.MaxBodyBytes))
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	NewRouter(engine, WithBasePath(cfg.BasePath)).
		Register(handler.NewProductHandler(store)).
		Register(handler.NewOrderHandler(store)).
		Setup()
	return engine, nil
}
