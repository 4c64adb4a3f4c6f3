// Package core holds process-wide plumbing: the structured logger and crash handling.
package core

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/sparkfx/config"
)

var (
	// globalLogger stores the logger safely across goroutines
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

// InitializeLogger sets up the global logger once
// The terminal owns stdout while the stage runs, so output goes to the rotated file and to extra, never the console
// A disabled config installs a no-op logger
func InitializeLogger(cfg config.LoggerConfig, extra ...zapcore.WriteSyncer) {
	once.Do(func() {
		if !cfg.Enabled && len(extra) == 0 {
			globalLogger.Store(zap.NewNop())
			return
		}

		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		encoder := newEncoder()
		var cores []zapcore.Core

		if cfg.Enabled && cfg.File != "" {
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			})
			cores = append(cores, zapcore.NewCore(encoder, fileWriter, level))
		}
		for _, w := range extra {
			cores = append(cores, zapcore.NewCore(encoder, w, level))
		}

		logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("sparkfx")
		globalLogger.Store(logger)
		zap.ReplaceGlobals(logger)
	})
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// GetLogger returns the global logger, a no-op logger before initialization
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// Sync flushes buffered log entries
func Sync() {
	logger := globalLogger.Load()
	if logger == nil {
		return
	}
	if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintln(os.Stderr, "Error: failed to sync logger:", err)
	}
}

// isIgnorableSyncError filters the EINVAL/ENOTTY zap reports when syncing terminals or pipes
func isIgnorableSyncError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}

// ResetForTest clears the global logger and the init guard; tests only
func ResetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
}
