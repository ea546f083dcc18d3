package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"rental-service/pkg/config"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// InitLogger initializes the global logger from configuration
func InitLogger(cfg *config.Config) {
	once.Do(func() {
		var level zapcore.Level
		switch cfg.Log.Level {
		case "debug":
			level = zapcore.DebugLevel
		case "info":
			level = zapcore.InfoLevel
		case "warn":
			level = zapcore.WarnLevel
		case "error":
			level = zapcore.ErrorLevel
		default:
			level = zapcore.InfoLevel
		}

		var zapConfig zap.Config
		if cfg.Server.Env == "production" {
			zapConfig = zap.NewProductionConfig()
			zapConfig.EncoderConfig.TimeKey = "timestamp"
			zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		} else {
			zapConfig = zap.NewDevelopmentConfig()
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
		zapConfig.OutputPaths = []string{"stdout"}

		logger, err := zapConfig.Build()
		if err != nil {
			panic(err)
		}
		instance = logger
		zap.ReplaceGlobals(logger)
	})
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		logger, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		instance = logger
	})
	return instance
}
