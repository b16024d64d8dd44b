// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger wraps a process-wide zap logger for the analysis commands.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zlog = zap.NewNop()

// Init builds the process logger. With verbose set, debug records are
// emitted as well.
func Init(verbose bool) error {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("Jan _2 15:04:05")
	cfg.EncoderConfig.StacktraceKey = ""

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	zlog = l
	return nil
}

func Debug(msg string, fields ...zap.Field) { zlog.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { zlog.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { zlog.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { zlog.Error(msg, fields...) }

// Sync flushes buffered records at process exit.
func Sync() error { return zlog.Sync() }
