package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		format      string
		wantLevel   zapcore.Level
	}{
		{"production json", "production", "info", "json", zapcore.InfoLevel},
		{"development console", "development", "debug", "text", zapcore.DebugLevel},
		{"warn level", "development", "warn", "json", zapcore.WarnLevel},
		{"unknown level falls back to info", "production", "verbose", "json", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.environment, tt.level, tt.format)

			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel != zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}
