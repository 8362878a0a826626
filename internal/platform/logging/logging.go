package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger and installs it as the zap global.
// The returned func flushes buffered entries and must be deferred by main.
func New(level string) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}
	logger = logger.With(zap.String("service", "printa-pos"))

	undo := zap.ReplaceGlobals(logger)
	return logger, func() {
		_ = logger.Sync()
		undo()
	}
}
