package logger

import (
	"context"
)

type tracerCtxKey struct{}

// Tracer holds per-run identity that follows the context through the whole
// program: injected once in the command entry point, printed on every line.
type Tracer struct {
	Command    string `json:"command,omitempty"`
	AppTraceID string `json:"app_trace_id,omitempty"`
}

// Inject returns a new context carrying the Tracer.
func Inject(ctx context.Context, data Tracer) context.Context {
	return context.WithValue(ctx, tracerCtxKey{}, data)
}

// Extract returns the Tracer previously injected, if any.
func Extract(ctx context.Context) (Tracer, bool) {
	data, ok := ctx.Value(tracerCtxKey{}).(Tracer)
	return data, ok
}
