// Package logger builds the zap logger shared by every service. Output is
// JSON in production, colorized console otherwise, and can be tee'd to
// CloudWatch Logs when CLOUDWATCH_ENABLED is set.
package logger

import (
	"context"
	"os"

	aws_pkg "github.com/rishavk21/UrbanCart-backend/pkg/aws"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the logger for the named service. The name shows up as the
// CloudWatch log stream prefix and as a constant field on every entry.
func New(serviceName string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if os.Getenv("APP_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	base = base.With(zap.String("service", serviceName))

	if os.Getenv("CLOUDWATCH_ENABLED") != "true" {
		return base, nil
	}

	cw, err := aws_pkg.NewCloudWatchLogsClient(context.Background(), serviceName)
	if err != nil {
		base.Warn("CloudWatch log shipping disabled", zap.Error(err))
		return base, nil
	}

	cwCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.AddSync(cw),
		cfg.Level,
	)
	tee := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, cwCore)
	}))
	return tee, nil
}
