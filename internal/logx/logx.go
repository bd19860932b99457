// Package logx builds the zap loggers used across ballot.
package logx

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel overrides the configured log level when set.
const EnvLevel = "BALLOT_LOG_LEVEL"

// New builds a logger writing to w. Format is "console" or "json".
func New(w io.Writer, levelStr, format string) *zap.Logger {
	if override := strings.TrimSpace(os.Getenv(EnvLevel)); override != "" {
		levelStr = override
	}
	level := ParseLevel(levelStr)

	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.CallerKey = ""
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}
	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

// ParseLevel maps a level name to a zap level, defaulting to warn.
func ParseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
