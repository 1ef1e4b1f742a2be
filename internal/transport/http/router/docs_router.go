package router

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/gitapi/pkg/logger"
)

func (r *Router) docsRouter() {
	var (
		once sync.Once
		spec []byte
		err  error
	)

	r.server.GET("/openapi.json", func(c *gin.Context) {
		// Routes are complete once the server is serving
		once.Do(func() {
			spec, err = r.server.OpenAPIGenerator.JSON()
		})
		if err != nil {
			r.server.Logger.Error("failed to render openapi document", logger.Error(err))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", spec)
	})
}
