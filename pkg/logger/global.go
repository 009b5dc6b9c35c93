package logger

import (
	"context"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger Logger = &Noop{}
)

// SetGlobalLogger swaps the process-wide logger. Call it once at startup,
// right after the zap writer is built from config.
func SetGlobalLogger(l Logger) {
	if l == nil {
		return
	}

	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

func global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func Debug(ctx context.Context, msg string, fields ...KeyValue) {
	global().Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...KeyValue) {
	global().Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...KeyValue) {
	global().Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...KeyValue) {
	global().Error(ctx, msg, fields...)
}

// Noop discards everything. It is the default before SetGlobalLogger so that
// library code can log unconditionally.
type Noop struct{}

func (n *Noop) Debug(ctx context.Context, msg string, fields ...KeyValue) {}
func (n *Noop) Info(ctx context.Context, msg string, fields ...KeyValue)  {}
func (n *Noop) Warn(ctx context.Context, msg string, fields ...KeyValue)  {}
func (n *Noop) Error(ctx context.Context, msg string, fields ...KeyValue) {}

var _ Logger = (*Noop)(nil)
