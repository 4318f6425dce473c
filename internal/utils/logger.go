package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogLevel keeps the console quiet unless something needs attention.
const DefaultLogLevel = "warn"

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger() (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config := zap.NewProductionConfig()
	config.Level = level
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	logger, buildError := config.Build()
	if buildError != nil {
		return nil, level, buildError
	}
	return logger, level, nil
}

// ApplyLogLevel parses levelName and installs it into level.
// An empty name leaves the level untouched.
func ApplyLogLevel(level zap.AtomicLevel, levelName string) error {
	trimmed := strings.ToLower(strings.TrimSpace(levelName))
	if trimmed == "" {
		return nil
	}
	parsed, parseError := zapcore.ParseLevel(trimmed)
	if parseError != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, parseError)
	}
	level.SetLevel(parsed)
	return nil
}
