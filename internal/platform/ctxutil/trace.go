package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries the correlation ids stamped on an inbound request.
type TraceData struct {
	TraceID   string
	RequestID string
}

// Fields renders the ids as alternating key/value pairs for structured logs.
// A nil receiver yields nil, so callers can append unconditionally.
func (td *TraceData) Fields() []any {
	if td == nil {
		return nil
	}
	fields := make([]any, 0, 4)
	if td.TraceID != "" {
		fields = append(fields, "trace_id", td.TraceID)
	}
	if td.RequestID != "" {
		fields = append(fields, "request_id", td.RequestID)
	}
	return fields
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}
