package main

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFile = "s3cmdr.log"

// newLogger builds the process logger. The TUI owns the terminal, so
// everything goes to a log file; level comes from S3CMDR_LOGLEVEL.
func newLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if v := os.Getenv("S3CMDR_LOGLEVEL"); v != "" {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{logFile}
	cfg.ErrorOutputPaths = []string{logFile}
	return cfg.Build()
}
