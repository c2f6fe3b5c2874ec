package ctxutil

import "context"

// Correlation ties one inbound request to its log lines and trace.
type Correlation struct {
	RequestID string
	TraceID   string
	SpanID    string
}

type correlationKey struct{}

func WithCorrelation(ctx context.Context, c Correlation) context.Context {
	return context.WithValue(ctx, correlationKey{}, c)
}

func CorrelationFrom(ctx context.Context) (Correlation, bool) {
	if ctx == nil {
		return Correlation{}, false
	}
	c, ok := ctx.Value(correlationKey{}).(Correlation)
	return c, ok
}

// RequestID is empty when ctx did not pass through the correlation middleware.
func RequestID(ctx context.Context) string {
	c, _ := CorrelationFrom(ctx)
	return c.RequestID
}
