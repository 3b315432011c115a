package logger_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caimi124/tiku-engine/internal/config"
	"github.com/caimi124/tiku-engine/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
		{name: "mixed case is accepted", logLevel: "DeBuG"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: tc.logLevel})

			assert.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		stored := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContext(ctx))
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		got := logger.FromContext(context.Background())

		assert.NotNil(t, got)
	})
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("prefers context logger", func(t *testing.T) {
		stored := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("uses fallback when context is empty", func(t *testing.T) {
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil fallback yields default logger", func(t *testing.T) {
		assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	})
}
