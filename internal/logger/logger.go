// Package logger builds the zap logger of the command line.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvVar selects the logger flavour: "dev" for human readable debug logs,
// anything else for json logs on stderr.
const EnvVar = "GESPORT_ENV"

// New returns a logger for the environment named by EnvVar. Outside of dev,
// only warnings and errors are printed unless verbose is set.
func New(verbose bool) *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	if strings.ToLower(os.Getenv(EnvVar)) == "dev" {
		logger, err = zap.NewDevelopment(opts...)
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
		logger, err = cfg.Build(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger carried by ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return zap.NewNop().Sugar()
}
