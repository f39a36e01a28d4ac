// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Logger is the global logger. It is a no-op until Initialize runs so
// packages can log safely from tests and library use.
var Logger = zap.NewNop().Sugar()

// Initialize replaces Logger according to cfg. Console output goes to
// stderr so command output on stdout stays machine-readable.
func Initialize(cfg types.LogConfig) error {
	l, err := build(cfg, os.Stderr)
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

func build(cfg types.LogConfig, w io.Writer) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		l, err := config.Build()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar(), nil
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = Logger.Sync()
}
