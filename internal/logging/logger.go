package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 개발 모드면 콘솔 형식, 아니면 JSON
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}
