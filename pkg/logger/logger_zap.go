package logger

import (
	"context"

	"go.uber.org/zap"
)

// Zap adapts a zap.Logger to the Logger interface, attaching the context
// Tracer fields to every line.
type Zap struct {
	writer *zap.Logger
}

func NewZap(zapLogger *zap.Logger) *Zap {
	return &Zap{writer: zapLogger}
}

func (z *Zap) Debug(ctx context.Context, msg string, fields ...KeyValue) {
	z.writer.Debug(msg, zapFields(ctx, fields)...)
}

func (z *Zap) Info(ctx context.Context, msg string, fields ...KeyValue) {
	z.writer.Info(msg, zapFields(ctx, fields)...)
}

func (z *Zap) Warn(ctx context.Context, msg string, fields ...KeyValue) {
	z.writer.Warn(msg, zapFields(ctx, fields)...)
}

func (z *Zap) Error(ctx context.Context, msg string, fields ...KeyValue) {
	z.writer.Error(msg, zapFields(ctx, fields)...)
}

func zapFields(ctx context.Context, fields []KeyValue) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+2)

	if data, ok := Extract(ctx); ok {
		if data.AppTraceID != "" {
			out = append(out, zap.String("trace_id", data.AppTraceID))
		}

		if data.Command != "" {
			out = append(out, zap.String("command", data.Command))
		}
	}

	for _, field := range fields {
		out = append(out, zap.Any(field.Key, field.Value))
	}

	return out
}

var _ Logger = (*Zap)(nil)
