// Package logging builds the structured zap logger shared by every tokamak
// component, the same way the teacher's pkg/services/logger builds the
// single *zap.Logger instance threaded through the whole application.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/denkhaus/tokamak/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelNames maps every accepted envconfig level string onto its
// zapcore.Level, including the "warning" alias envconfig users tend to
// reach for instead of zap's own "warn".
var levelNames = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
	"fatal":   zapcore.FatalLevel,
	"panic":   zapcore.PanicLevel,
}

// ParseLevel converts a string into a zapcore.Level, defaulting to Info.
// Exported so callers hot-reloading an AtomicLevel (pkg/config.WatchFile)
// use the same level names New/NewAtomic accept.
func ParseLevel(level string) zapcore.Level {
	if l, ok := levelNames[strings.ToLower(level)]; ok {
		return l
	}
	return zapcore.InfoLevel
}

// encoderBuilders maps a configured format name onto the zapcore.Encoder
// constructor for it; anything unrecognized falls back to JSON.
var encoderBuilders = map[string]func(zapcore.EncoderConfig) zapcore.Encoder{
	"json": func(c zapcore.EncoderConfig) zapcore.Encoder { return zapcore.NewJSONEncoder(c) },
	"text": func(c zapcore.EncoderConfig) zapcore.Encoder {
		c.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(c)
	},
	"console": func(c zapcore.EncoderConfig) zapcore.Encoder {
		c.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(c)
	},
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	build, ok := encoderBuilders[strings.ToLower(format)]
	if !ok {
		build = encoderBuilders["json"]
	}
	return build(encoderCfg)
}

// sinkFactories enumerates the stdout-family outputs available without
// opening a file; anything not listed here falls back to stdout.
var sinkFactories = map[string]func() zapcore.WriteSyncer{
	"stderr": func() zapcore.WriteSyncer { return zapcore.AddSync(os.Stderr) },
	"stdout": func() zapcore.WriteSyncer { return zapcore.AddSync(os.Stdout) },
}

func newWriteSyncer(cfg *config.Config) (zapcore.WriteSyncer, error) {
	sink, ok := sinkFactories[strings.ToLower(cfg.Logging.Output)]
	if !ok {
		sink = sinkFactories["stdout"]
	}
	writers := []zapcore.WriteSyncer{sink()}

	if cfg.Logging.EnableFile {
		fileSink, err := openFileSink(cfg.Logging.FilePath)
		if err != nil {
			return nil, err
		}
		writers = append(writers, fileSink)
	}

	return zapcore.NewMultiWriteSyncer(writers...), nil
}

func openFileSink(path string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return zapcore.AddSync(file), nil
}

// New builds the application logger from a resolved *config.Config. It
// registers nothing with an Injector itself; a bundle that needs *zap.Logger
// provides the built logger explicitly.
func New(cfg *config.Config) (*zap.Logger, error) {
	logger, _, err := NewAtomic(cfg)
	return logger, err
}

// NewAtomic is identical to New but also returns the zap.AtomicLevel backing
// the logger's core, letting pkg/config.WatchFile hot-reload the level
// without rebuilding the logger or touching injector wiring.
func NewAtomic(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	atomicLevel := zap.NewAtomicLevelAt(ParseLevel(cfg.Logging.Level))

	encoder := newEncoder(cfg.Logging.Format)

	writeSyncer, err := newWriteSyncer(cfg)
	if err != nil {
		return nil, atomicLevel, err
	}

	core := zapcore.NewCore(encoder, writeSyncer, atomicLevel)

	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		logger = zap.New(core)
	}

	logger.Info("logger initialized",
		zap.String("level", cfg.Logging.Level),
		zap.String("format", cfg.Logging.Format),
		zap.String("output", cfg.Logging.Output),
		zap.Bool("file_enabled", cfg.Logging.EnableFile),
	)

	return logger, atomicLevel, nil
}
