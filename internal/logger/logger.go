// Package logger configures the process-wide zap logger.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// New builds a development logger (console, debug level) when isDev is set
// and a production JSON logger otherwise.
func New(isDev bool) (*zap.Logger, error) {
	if isDev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Init replaces the global logger.
func Init(isDev bool) error {
	l, err := New(isDev)
	if err != nil {
		return err
	}
	mu.Lock()
	global = l
	mu.Unlock()
	zap.ReplaceGlobals(l)
	return nil
}

// DevEnv reports whether an ENV value selects development logging. An unset
// ENV counts as development, matching the server config default.
func DevEnv(env string) bool {
	return env == "" || env == "development"
}

// InitFromEnv initializes the global logger from the ENV variable. The CLI
// tools use it so they log the way the server does without loading the full
// server configuration.
func InitFromEnv() error {
	return Init(DevEnv(os.Getenv("ENV")))
}

// L returns the global logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
