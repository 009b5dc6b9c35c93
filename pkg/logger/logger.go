package logger

import (
	"context"
)

// Logger is the logging surface the rest of the program depends on. The
// context carries the Tracer so call sites never pass run identity by hand.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...KeyValue)
	Info(ctx context.Context, msg string, fields ...KeyValue)
	Warn(ctx context.Context, msg string, fields ...KeyValue)
	Error(ctx context.Context, msg string, fields ...KeyValue)
}

type KeyValue struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func KV(k string, v interface{}) KeyValue {
	return KeyValue{
		Key:   k,
		Value: v,
	}
}

// Err is shorthand for the conventional error field.
func Err(err error) KeyValue {
	if err == nil {
		return KeyValue{Key: "error"}
	}

	return KeyValue{Key: "error", Value: err.Error()}
}
