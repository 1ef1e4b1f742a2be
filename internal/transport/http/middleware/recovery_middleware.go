package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/gitapi/internal/application/dto"
	apperrors "github.com/bravo68web/gitapi/pkg/errors"
	"github.com/bravo68web/gitapi/pkg/logger"
)

// RecoveryConfig holds configuration for the recovery middleware
type RecoveryConfig struct {
	// Logger is the logger instance to use
	Logger *logger.Logger

	// EnableStackTrace determines if stack traces should be logged
	EnableStackTrace bool

	// StackTraceSize is the maximum size of stack trace to capture
	StackTraceSize int
}

// DefaultRecoveryConfig returns a default recovery configuration
func DefaultRecoveryConfig() *RecoveryConfig {
	return &RecoveryConfig{
		Logger:           nil, // Will use global logger
		EnableStackTrace: true,
		StackTraceSize:   4096,
	}
}

// RecoveryMiddleware returns a Gin middleware for panic recovery with logging
func RecoveryMiddleware() gin.HandlerFunc {
	return RecoveryMiddlewareWithConfig(DefaultRecoveryConfig())
}

// RecoveryMiddlewareWithLogger returns a panic recovery middleware with a specific logger
func RecoveryMiddlewareWithLogger(log *logger.Logger) gin.HandlerFunc {
	cfg := DefaultRecoveryConfig()
	cfg.Logger = log
	return RecoveryMiddlewareWithConfig(cfg)
}

// RecoveryMiddlewareWithConfig returns a panic recovery middleware with custom configuration.
// A recovered panic is answered with the generic 500 error body.
func RecoveryMiddlewareWithConfig(cfg *RecoveryConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultRecoveryConfig()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log := cfg.Logger
			if log == nil {
				log = logger.Get()
			}

			fields := []logger.Field{
				logger.Any("panic", rec),
				logger.Method(c.Request.Method),
				logger.Path(c.Request.URL.Path),
				logger.Query(c.Request.URL.RawQuery),
				logger.ClientIP(c.ClientIP()),
			}
			if requestID := GetRequestID(c); requestID != "" {
				fields = append(fields, logger.RequestID(requestID))
			}
			if traceID := GetTraceID(c); traceID != "" {
				fields = append(fields, logger.TraceID(traceID))
			}
			if cfg.EnableStackTrace {
				stack := debug.Stack()
				if cfg.StackTraceSize > 0 && len(stack) > cfg.StackTraceSize {
					stack = stack[:cfg.StackTraceSize]
				}
				fields = append(fields, logger.ByteString("stacktrace", stack))
			}

			log.Error("Panic recovered", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:    http.StatusInternalServerError,
				Message: apperrors.DefaultInternalMessage,
			})
		}()

		c.Next()
	}
}
