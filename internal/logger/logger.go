package logger

import (
	"coin-admin/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the console logger. When a sink is given, entries at
// info level and above are also handed to it.
func NewLogger(cfg *config.Config, sink Sink) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Caller function names are part of persisted entries.
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	if sink == nil {
		return baseLogger, nil
	}

	core := NewSinkCore(baseLogger.Core(), sink, zapcore.InfoLevel)
	return zap.New(core, zap.AddCaller()), nil
}
