package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defaultLevel is used when no log level is configured
const defaultLevel = zapcore.WarnLevel

// LogConfig selects the sink and level of the command logger
type LogConfig struct {
	// Level is a zap level name such as "debug" or "info". Empty selects
	// the default level.
	Level string

	// Writer receives the encoded records. Nil selects os.Stderr.
	Writer io.Writer
}

// NewLogger builds a console logger around a new zapcore.Core
func NewLogger(c LogConfig) (*zap.SugaredLogger, error) {
	level := defaultLevel
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", c.Level)
		}
	}

	w := c.Writer
	if w == nil {
		w = os.Stderr
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.NameKey = "name"

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)

	logger := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return logger.Named("cn25519").Sugar(), nil
}
