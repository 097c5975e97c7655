package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("http request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"ip", c.ClientIP(),
			"latency", time.Since(start),
			"body_size", c.Writer.Size(),
		)

		for _, e := range c.Errors {
			logger.Error("request error", "err", e.Error())
		}
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, Mcp-Session-Id, Mcp-Protocol-Version")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// IdentityMiddleware resolves an optional bearer token onto the request
// context. Requests without a valid token continue anonymously; operations
// that need an identity reject them later.
func IdentityMiddleware(verifier auth.Verifier, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" || verifier == nil {
			c.Next()
			return
		}

		id, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("ignoring invalid bearer token", "path", c.Request.URL.Path, "err", err)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), &id))
		c.Next()
	}
}
