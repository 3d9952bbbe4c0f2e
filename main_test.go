package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/config"
)

func TestInitLogger(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps every configured level", func(t *testing.T) {
		cases := []struct {
			logLevel string
			want     slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range cases {
			logger := initLogger(&config.Config{LogLevel: tc.logLevel})

			assert.True(t, logger.Enabled(ctx, tc.want), tc.logLevel)
			assert.False(t, logger.Enabled(ctx, tc.want-1), tc.logLevel)
		}
	})

	t.Run("Falls back to info on an unknown level", func(t *testing.T) {
		logger := initLogger(&config.Config{LogLevel: "verbose"})

		assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
		assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
	})
}
