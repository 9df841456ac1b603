package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/botbridge-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext stamps every request with trace and request ids and
// echoes them back as response headers. The trace id prefers the caller's
// header, then the live OTel span, then a fresh uuid.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		traceID := resolveTraceID(c)

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

func resolveTraceID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerTraceID)); id != "" {
		return id
	}
	if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	return uuid.New().String()
}
