// Package logger exposes a process-wide zap logger through package-level
// functions taking a message and key/value pairs.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the sugared zap logger. Printf makes it usable as a
// fasthttp server logger.
type Logger struct {
	log *zap.SugaredLogger
}

var std *Logger

func init() {
	config := zap.NewDevelopmentConfig()
	if os.Getenv("LOG_ENV") == "production" {
		config = zap.NewProductionConfig()
	}
	if lvl, ok := parseLevel(os.Getenv("LOG_LEVEL")); ok {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := New(config)
	if err != nil {
		panic(err)
	}
	std = l
}

// New builds a logger whose caller is the function that called one of the
// package-level helpers.
func New(config zap.Config) (*Logger, error) {
	z, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{log: z.Sugar()}, nil
}

func GetLogger() *Logger {
	if std == nil {
		panic("logger not initialized")
	}
	return std
}

func (l *Logger) Printf(format string, args ...any) {
	l.log.Infof(format, args...)
}

func parseLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error", "err":
		return zapcore.ErrorLevel, true
	}
	return zapcore.InfoLevel, false
}

func Info(msg string, values ...any) {
	GetLogger().log.Infow(msg, values...)
}

func Warn(msg string, values ...any) {
	GetLogger().log.Warnw(msg, values...)
}

func Error(msg string, values ...any) {
	GetLogger().log.Errorw(msg, values...)
}

func Debug(msg string, values ...any) {
	GetLogger().log.Debugw(msg, values...)
}

func Panic(msg string, values ...any) {
	GetLogger().log.Panicw(msg, values...)
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	_ = GetLogger().log.Sync()
}
