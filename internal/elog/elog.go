// Package elog bootstraps the structured logger threaded through long-lived
// builder types, mirroring the teacher's practice of carrying a Log field on
// MassifCommitter and friends rather than reaching for a package-level
// global outside of tests.
package elog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger at the given level ("debug", "info", "warn",
// "error"; anything unrecognized falls back to "info"). Call Sync before
// process exit to flush buffered entries.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Noop returns a logger that discards everything, for tests and call sites
// that have not been handed a real one.
func Noop() *zap.Logger {
	return zap.NewNop()
}
