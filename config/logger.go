package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type LoggingConfig struct {
	Console LoggerConfig `yaml:"console"`
}

// Prepare returns our standard logger - configured zap logger for use by the
// program. Low-priority entries go to stdout, errors to stderr.
func (conf *LoggingConfig) Prepare() (*zap.Logger, error) {
	if conf.Console.Level == "none" {
		return zap.NewNop(), nil
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(ec)

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	var lowPriority zap.LevelEnablerFunc
	switch conf.Console.Level {
	case "debug":
		lowPriority = func(lvl zapcore.Level) bool {
			return lvl < zapcore.ErrorLevel
		}
	default:
		lowPriority = func(lvl zapcore.Level) bool {
			return lvl >= zapcore.InfoLevel && lvl < zapcore.ErrorLevel
		}
	}

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lowPriority),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), highPriority),
	)
	return zap.New(core), nil
}
