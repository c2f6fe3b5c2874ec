package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// RequestLogger writes one line per request after the chain finishes.
// Successful hits on quiet routes (probes, scrapes) drop to debug.
func RequestLogger(log *logger.Logger, quiet ...string) gin.HandlerFunc {
	quietRoutes := make(map[string]struct{}, len(quiet))
	for _, r := range quiet {
		quietRoutes[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if log == nil {
			c.Next()
			return
		}
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"latency_ms", time.Since(began).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if corr, ok := ctxutil.CorrelationFrom(c.Request.Context()); ok {
			kv = append(kv, "request_id", corr.RequestID, "trace_id", corr.TraceID)
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
			kv = append(kv, "user_id", rd.UserID.String(), "admin", rd.IsAdmin)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", kv...)
		case status >= 400:
			log.Warn("request rejected", kv...)
		default:
			if _, ok := quietRoutes[route]; ok {
				log.Debug("request", kv...)
				return
			}
			log.Info("request", kv...)
		}
	}
}
