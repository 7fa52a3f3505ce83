package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	appctx "assetbook/internal/core/context"
	"assetbook/pkg/logger"
)

// Trace assigns each request a trace context and puts it, together with
// the request logger, into the request context.
func Trace(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext()
		if incoming := c.GetHeader("X-Request-ID"); incoming != "" {
			trace.RequestID = incoming
		}

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		ctx = logger.WithLogger(ctx, log)
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", trace.RequestID)
		c.Header("X-Request-ID", trace.RequestID)

		c.Next()
	}
}

// Logger middleware logs HTTP requests with timing and status.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
