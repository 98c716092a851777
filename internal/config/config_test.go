package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "123:abc")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "123:abc", cfg.TelegramToken)
		assert.Equal(t, "marvin.json", cfg.StoragePath)
		assert.Equal(t, 90, cfg.TermLengthDays)
		assert.Equal(t, 400, cfg.SassFrequency)
		assert.Equal(t, 150, cfg.StandardEventFrequency)
		assert.Equal(t, 1000, cfg.EpicEventFrequency)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "123:abc")
		t.Setenv("TERM_LENGTH_DAYS", "7")
		t.Setenv("STANDARD_EVENT_FREQUENCY", "10")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, 7, cfg.TermLengthDays)
		assert.Equal(t, 10, cfg.StandardEventFrequency)
	})

	t.Run("missing token fails", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "placeholder") // registers cleanup
		require.NoError(t, os.Unsetenv("TELEGRAM_TOKEN"))

		_, err := New()
		assert.Error(t, err)
	})
}
