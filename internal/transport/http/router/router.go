package router

import (
	"github.com/bravo68web/gitapi/internal/injectable"
	"github.com/bravo68web/gitapi/internal/server"
	"github.com/bravo68web/gitapi/internal/transport/http/middleware"
)

type Router struct {
	server *server.Server
	Deps   *injectable.Dependencies
}

// NewRouter creates a new Router instance.
func NewRouter(s *server.Server, deps injectable.Dependencies) *Router {
	return &Router{
		server: s,
		Deps:   &deps,
	}
}

// RegisterRoutes sets up the routes and middleware for the server.
func (r *Router) RegisterRoutes() {
	loggerCfg := middleware.DefaultLoggerConfig()
	loggerCfg.Logger = r.server.Logger

	r.server.Use(
		middleware.RecoveryMiddlewareWithLogger(r.server.Logger),
		middleware.LoggerMiddlewareWithConfig(loggerCfg),
		middleware.CORSMiddleware(r.server.Config.CORS.AllowedOrigins),
	)

	r.healthRouter()
	r.repoRouter()
	r.docsRouter()
}
