package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/config"
)

type testConfig struct {
	Addr    string        `env:"TEST_CFG_ADDR" envDefault:":9090"`
	Retries int           `env:"TEST_CFG_RETRIES" envDefault:"3"`
	Wait    time.Duration `env:"TEST_CFG_WAIT" envDefault:"5s"`
}

type overrideConfig struct {
	Token string `env:"TEST_CFG_TOKEN" envDefault:"fallback"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, 3, cfg.Retries)
		assert.Equal(t, 5*time.Second, cfg.Wait)
	})

	t.Run("reads environment overrides", func(t *testing.T) {
		t.Setenv("TEST_CFG_TOKEN", "from-env")

		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-env", cfg.Token)
	})

	t.Run("caches the first parse per type", func(t *testing.T) {
		var first testConfig
		require.NoError(t, config.Load(&first))

		// Changing the environment after the first load has no effect:
		// the cached copy is returned.
		t.Setenv("TEST_CFG_RETRIES", "99")

		var second testConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first.Retries, second.Retries)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns value on success", func(t *testing.T) {
		var cfg testConfig
		assert.NotPanics(t, func() {
			config.MustLoad(&cfg)
		})
	})

	t.Run("panics on nil pointer", func(t *testing.T) {
		assert.Panics(t, func() {
			config.MustLoad[testConfig](nil)
		})
	})
}
