package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds configuration for the logger.
type Config struct {
	Environment string
	LogLevel    string
	ServiceName string
}

// New builds a JSON zap logger. Development environments get a console
// encoder with colour levels instead.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoding := "json"
	if cfg.Environment == "development" {
		encoding = "console"
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zcfg := zap.Config{
		Level:            level,
		Development:      cfg.Environment == "development",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	), nil
}
