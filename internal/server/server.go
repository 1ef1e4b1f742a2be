package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/gitapi/internal/config"
	"github.com/bravo68web/gitapi/pkg/logger"
	"github.com/bravo68web/gitapi/pkg/openapi"
)

// Version is reported in the OpenAPI document and the OTEL resource
var Version = "dev"

type Server struct {
	*gin.Engine

	Config           *config.Config
	Logger           *logger.Logger
	OpenAPIGenerator *openapi.Generator
}

// New builds the gin engine for cfg. Middleware and routes are added by the router.
func New(cfg *config.Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Get()
	}

	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	// Nested repository names arrive as a single %2F-encoded segment
	engine.UseRawPath = true

	generator := openapi.NewGenerator(
		engine,
		openapi.Info{
			Title:       "Git API",
			Description: "Read-only HTTP API over a directory of bare git repositories",
			Version:     Version,
		},
		[]openapi.Server{{URL: cfg.API.BaseURL(), Description: "Configured API host"}},
		[]openapi.Tag{
			{Name: "Repositories", Description: "Repository listing and metadata"},
			{Name: "Commits", Description: "Commit history"},
			{Name: "Tags", Description: "Tags"},
			{Name: "Trees", Description: "Tree listings"},
			{Name: "Archives", Description: "Tarball and zipball downloads"},
			{Name: "Files", Description: "Blob contents and file history"},
		},
	)

	return &Server{
		Engine:           engine,
		Config:           cfg,
		Logger:           log.WithFields(logger.Component("http-server")),
		OpenAPIGenerator: generator,
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// for up to server.shutdown_timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.ServerAddress(),
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("http server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
