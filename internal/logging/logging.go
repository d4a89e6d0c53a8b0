package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Path of the JSON log file. Empty disables logging unless Stderr is set.
	Path   string
	Level  string
	Stderr bool
}

// New builds the process logger. Console output belongs to the report sink,
// so without a log file or explicit stderr the logger is a no-op.
func New(opts Options) (*zap.Logger, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" && !opts.Stderr {
		return zap.NewNop(), nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	cfg.OutputPaths = nil
	if path != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, path)
	}
	if opts.Stderr {
		cfg.OutputPaths = append(cfg.OutputPaths, "stderr")
	}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func ParseLevel(raw string) (zapcore.Level, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q (use debug|info|warn|error)", raw)
	}
	return level, nil
}
