// Package logging builds the zap loggers used across certledger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FieldComponent is the key identifying the subsystem that emitted a log line.
const FieldComponent = "component"

// Options selects the logger configuration.
type Options struct {
	// Level is a zap level name; unknown or empty values mean info.
	Level string
	// File, when set, receives a copy of every log line.
	File string
	// Environment "production" selects JSON output; anything else is console.
	Environment string
}

// New builds a logger writing to stderr and, optionally, Options.File.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.DisableStacktrace = true
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if file := strings.TrimSpace(opts.File); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
			return nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		config.OutputPaths = append(config.OutputPaths, file)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil || name == "" {
		return zapcore.InfoLevel
	}
	return level
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.Logger { return zap.NewNop() }

// Component returns l tagged with the component field. A nil l yields a nop logger.
func Component(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		l = NewNop()
	}
	return l.With(zap.String(FieldComponent, name))
}
