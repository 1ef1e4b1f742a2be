package router

import (
	"github.com/bravo68web/gitapi/internal/transport/http/handler"
)

func (r *Router) healthRouter() {
	r.server.GET("/healthz", handler.HealthHandler())
}
