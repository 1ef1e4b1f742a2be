package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bravo68web/gitapi/internal/application/dto"
	apperrors "github.com/bravo68web/gitapi/pkg/errors"
	"github.com/bravo68web/gitapi/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewWithCore(nil, core), logs
}

func newEngine(log *logger.Logger) *gin.Engine {
	cfg := DefaultLoggerConfig()
	cfg.Logger = log

	engine := gin.New()
	engine.Use(RecoveryMiddlewareWithLogger(log), LoggerMiddlewareWithConfig(cfg))
	engine.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	engine.GET("/missing", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})
	engine.GET("/panic", func(c *gin.Context) {
		panic("exploded")
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK!")
	})
	return engine
}

func TestLoggerMiddleware_RequestID(t *testing.T) {
	log, logs := observedLogger()
	engine := newEngine(log)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	generated := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-123")
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "req-123", entries[1].ContextMap()["request_id"])
}

func TestLoggerMiddleware_LevelByStatus(t *testing.T) {
	log, logs := observedLogger()
	engine := newEngine(log)

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestLoggerMiddleware_SkipsHealthz(t *testing.T) {
	log, logs := observedLogger()
	engine := newEngine(log)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Zero(t, logs.FilterMessage("HTTP Request").Len())
}

func TestRecoveryMiddleware(t *testing.T) {
	log, logs := observedLogger()
	engine := newEngine(log)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrorResponse{Code: 500, Message: apperrors.DefaultInternalMessage}, body)

	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		allowed string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://app.example.com", allowed: "*"},
		{name: "empty list allows all", origins: nil, origin: "https://app.example.com", allowed: "*"},
		{name: "listed origin", origins: []string{"https://app.example.com"}, origin: "https://app.example.com", allowed: "https://app.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(CORSMiddleware(tt.origins))
			engine.GET("/repositories", func(c *gin.Context) {
				c.JSON(http.StatusOK, []string{})
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/repositories", nil)
			req.Header.Set("Origin", tt.origin)
			engine.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.allowed, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSMiddleware_RejectsUnlistedOrigin(t *testing.T) {
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"https://app.example.com"}))
	engine.GET("/repositories", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/repositories", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
