package core

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/sparkfx/config"
)

func TestGetLoggerBeforeInit(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	// No-op logger never enables any level
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestInitializeLogger(t *testing.T) {
	t.Run("disabled installs nop", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		InitializeLogger(config.LoggerConfig{Enabled: false, Level: "debug"})
		assert.False(t, GetLogger().Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("extra writer receives json", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		buf := new(bytes.Buffer)
		InitializeLogger(config.LoggerConfig{Level: "info"}, zapcore.AddSync(buf))

		GetLogger().Warn("effect failed", zap.String("effect", "fire"))
		GetLogger().Debug("filtered out")
		Sync()

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output: %s", buf.String())
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "effect failed", entry["msg"])
		assert.Equal(t, "fire", entry["effect"])
		assert.Equal(t, "sparkfx", entry["logger"])
	})

	t.Run("file sink through lumberjack", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		path := filepath.Join(t.TempDir(), "sparkfx.log")
		InitializeLogger(config.LoggerConfig{Enabled: true, Level: "debug", File: path, MaxSize: 1})

		GetLogger().Debug("frame", zap.Int("n", 1))
		Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"frame"`)
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		buf := new(bytes.Buffer)
		InitializeLogger(config.LoggerConfig{Level: "loud"}, zapcore.AddSync(buf))
		logger := GetLogger()
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("initializes once", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		first := new(bytes.Buffer)
		second := new(bytes.Buffer)
		InitializeLogger(config.LoggerConfig{Level: "info"}, zapcore.AddSync(first))
		InitializeLogger(config.LoggerConfig{Level: "info"}, zapcore.AddSync(second))

		GetLogger().Info("hello")
		assert.NotZero(t, first.Len())
		assert.Zero(t, second.Len())
	})
}
