package log

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment controls the baseline logger profile.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentLocal      Environment = "local"
)

// ZapConfig contains the zap logger initialization inputs.
type ZapConfig struct {
	Environment Environment
	// Level overrides the environment default ("debug", "info", "warn",
	// "error"). Empty keeps the default: info in production, debug locally.
	Level string
}

func (c ZapConfig) validate() error {
	switch c.Environment {
	case EnvironmentProduction, EnvironmentLocal:
		return nil
	default:
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
}

// NewZap creates a zap-backed Logger.
//
//nolint:ireturn
func NewZap(cfg ZapConfig) (Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid zap config: %w", err)
	}

	baseConfig := buildConfigByEnvironment(cfg.Environment)
	baseConfig.DisableStacktrace = true

	if strings.TrimSpace(cfg.Level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", cfg.Level, err)
		}

		baseConfig.Level = zap.NewAtomicLevelAt(parsed)
	}

	built, err := baseConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &zapLogger{logger: built}, nil
}

func buildConfigByEnvironment(env Environment) zap.Config {
	if env == EnvironmentProduction {
		return zap.NewProductionConfig()
	}

	return zap.NewDevelopmentConfig()
}

// zapLogger adapts *zap.Logger to the Logger interface.
type zapLogger struct {
	logger *zap.Logger
}

// Log writes one structured event at the given level.
func (l *zapLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	l.logger.Log(toZapLevel(level), msg, toZapFields(fields)...)
}

// With returns a child logger carrying the given fields.
//
//nolint:ireturn
func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{logger: l.logger.With(toZapFields(fields)...)}
}

// Enabled reports whether the level would be emitted.
func (l *zapLogger) Enabled(level Level) bool {
	return l.logger.Core().Enabled(toZapLevel(level))
}

// Sync flushes buffered log entries.
func (l *zapLogger) Sync(_ context.Context) error {
	return l.logger.Sync()
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))

	for _, field := range fields {
		if err, ok := field.Value.(error); ok && field.Key == "error" {
			out = append(out, zap.Error(err))
			continue
		}

		out = append(out, zap.Any(field.Key, field.Value))
	}

	return out
}
