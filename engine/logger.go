package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the engine's logger instance.
// It uses a no-op logger by default; SetLogger installs a real one.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	logger.CompareAndSwap(nil, zap.NewNop())
	return logger.Load()
}

// SetLogger replaces the package logger. Safe for concurrent use with
// Logger; nil is ignored.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// debugf is a no-op debug helper. Enable by setting debug = true.
var debug = false

func debugf(format string, args ...any) {
	if debug {
		Logger().Sugar().Debugf(format, args...)
	}
}
