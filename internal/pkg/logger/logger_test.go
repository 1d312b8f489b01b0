package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	t.Run("開発環境", func(t *testing.T) {
		logger := NewLogger("development")
		require.NotNil(t, logger)
		logger.Info("test message")
	})

	t.Run("本番環境", func(t *testing.T) {
		logger := NewLogger("production")
		require.NotNil(t, logger)
		logger.Info("test message")
	})

	t.Run("LOG_LEVELで上書きできる", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		logger := NewLogger("development")
		require.NotNil(t, logger)
	})

	t.Run("無効なLOG_LEVELでも動作する", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "invalid_level")
		logger := NewLogger("development")
		require.NotNil(t, logger)
	})
}

func TestSet(t *testing.T) {
	originalLogger := Get()
	defer Set(originalLogger) // テスト後に元に戻す

	newLogger := zap.NewNop()
	Set(newLogger)

	assert.Equal(t, newLogger, Get())
}

func TestPackageLevelHelpers(t *testing.T) {
	// ログ関数がパニックしないことを確認
	assert.NotPanics(t, func() {
		Debug("debug message")
		Info("info message", zap.String("flight_id", "flight-1"))
		Warn("warn message", zap.Int("count", 3))
		Error("error message", zap.String("hold_id", "hold-1"))
		_ = Sync()
	})

	logger := With(zap.String("component", "hold_service"))
	require.NotNil(t, logger)
}
