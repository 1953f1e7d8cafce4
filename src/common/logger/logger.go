package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerEnvironment string

const (
	LoggerEnvDevelopment LoggerEnvironment = "debug"
	LoggerEnvProduction  LoggerEnvironment = "info"
)

var Logger *zap.SugaredLogger

// InitLogger configures the global sugared logger. The environment doubles
// as the minimum log level ("debug" or "info").
func InitLogger(env LoggerEnvironment) {
	var logger *zap.Logger
	var err error

	switch env {
	case LoggerEnvDevelopment:
		logger, err = zap.NewDevelopment()
	default:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		logger, err = cfg.Build()
	}
	if err != nil {
		logger = zap.NewNop()
	}

	Logger = logger.Sugar()
}

func GetLogger() *zap.SugaredLogger {
	if Logger == nil {
		InitLogger(LoggerEnvDevelopment)
	}
	return Logger
}

func Sync() {
	if Logger != nil {
		Logger.Sync()
	}
}
