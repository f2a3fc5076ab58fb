// Package logger owns the process-wide zap logger. The environment decides
// the output shape: human-readable console output in development, JSON in
// production, and a nop logger under test so suites are not drowned in the
// request logging the API client emits on expected failures.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// Init configures the global logger for env ("development", "production" or
// "test"). Calling it again replaces the logger; test binaries rely on that
// to silence whatever an earlier init picked.
func Init(env string) {
	base := build(env)
	mu.Lock()
	sugar = base.Sugar()
	mu.Unlock()
}

func build(env string) *zap.Logger {
	switch env {
	case "production":
		l, err := zap.NewProduction()
		if err != nil {
			return zap.NewNop()
		}
		return l
	case "test":
		return zap.NewNop()
	default:
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}
}

// Get returns the global sugared logger. If Init has not been called it
// falls back to a development logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}

	Init("development")
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes any buffered entries. Call before process exit.
func Sync() {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		_ = s.Sync()
	}
}
