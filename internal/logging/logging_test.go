package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("accepts known levels and formats", func(t *testing.T) {
		for _, level := range []string{"", "debug", "info", "warn", "error"} {
			cfg := &Config{Level: level, Format: "json"}
			assert.NoError(t, cfg.Validate())
		}
		for _, format := range []string{"", "json", "console"} {
			cfg := &Config{Level: "info", Format: format}
			assert.NoError(t, cfg.Validate())
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		cfg := &Config{Level: "verbose"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		cfg := &Config{Format: "logfmt"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})
}

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		logger, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("console format", func(t *testing.T) {
		logger, err := New(&Config{Level: "debug", Format: "console"})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("invalid config errors", func(t *testing.T) {
		_, err := New(&Config{Level: "loud"})
		assert.Error(t, err)
	})
}
