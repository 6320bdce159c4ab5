package logger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"password":       {},
	"channelkey":     {},
	"channel_key":    {},
	"channelkeyhash": {},
	"authorization":  {},
	"pin":            {},
	"amqpurl":        {},
	"amqp_url":       {},
	"databasedsn":    {},
	"database_dsn":   {},
}

var current atomic.Pointer[zap.Logger]

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Init replaces the process logger with a JSON production logger at level.
func Init(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	Use(l)
	return nil
}

// Use swaps the process logger and returns a func restoring the previous one.
func Use(l *zap.Logger) func() {
	previous := current.Swap(l)
	return func() {
		current.Store(previous)
	}
}

func Sync() {
	_ = current.Load().Sync()
}

func Info(message string, fields Fields) {
	current.Load().Info(message, zapFields(fields)...)
}

func Warn(message string, fields Fields) {
	current.Load().Warn(message, zapFields(fields)...)
}

func Error(message string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.String("error", err.Error()))
	}
	current.Load().Error(message, zf...)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func zapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if isSensitiveKey(k) {
			out = append(out, zap.String(k, "******"))
			continue
		}
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
