package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clickform/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestMiddleware assigns each request an id, attaches a logger carrying
// it to the request context and logs the request once it completes.
// A well-formed incoming X-Request-ID is kept.
func RequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		log := logger.FromContext(c.Request.Context()).With(requestIDKey, id)
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), log))

		c.Next()

		log.Debug("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// requestID returns the id assigned by RequestMiddleware.
func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
