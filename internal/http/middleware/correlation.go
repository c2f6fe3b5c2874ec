package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	maxRequestIDLen = 64
)

// Correlate stamps each request with a request id and the active trace id.
// A client supplied X-Request-Id is kept when it is short and plain ASCII.
// Must run after otelgin so the server span already exists.
func Correlate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		corr := ctxutil.Correlation{RequestID: cleanRequestID(c.GetHeader(HeaderRequestID))}
		if corr.RequestID == "" {
			corr.RequestID = uuid.NewString()
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			corr.TraceID = sc.TraceID().String()
			corr.SpanID = sc.SpanID().String()
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("coursehub.request_id", corr.RequestID))
		} else {
			corr.TraceID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}

		c.Request = c.Request.WithContext(ctxutil.WithCorrelation(ctx, corr))
		c.Header(HeaderRequestID, corr.RequestID)
		c.Header(HeaderTraceID, corr.TraceID)
		c.Next()
	}
}

func cleanRequestID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxRequestIDLen {
		return ""
	}
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.' || ch == ':':
		default:
			return ""
		}
	}
	return raw
}
