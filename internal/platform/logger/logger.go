// Package logger provides the process-wide structured logger built on zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// fallback serves Get before Init runs, e.g. while config is still loading.
// It never occupies the global slot, so a later Init always takes effect.
var fallback = sync.OnceValue(func() *zap.SugaredLogger {
	l, err := build("development")
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
})

// Init builds the logger for env and installs it as the global logger.
// "production" writes JSON, anything else writes human-readable console output.
func Init(env string) {
	l, err := build(env)
	if err != nil {
		l = zap.NewNop()
	}
	Set(l.Sugar())
}

func build(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	// スタックトレースはErrorから。Warnは通常運用のフォールバックでも出る
	return cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// Set replaces the global logger. Tests use it to install an observer; nil restores the fallback.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l
}

// Get returns the global logger, or a development logger when Init has not run yet.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		return l
	}
	return fallback()
}

// Sync flushes buffered log entries. Call it before the process exits.
func Sync() {
	_ = Get().Sync()
}
