package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, CharsetAlpha, cfg.OTP.Charset)
	assert.Equal(t, 15*time.Minute, cfg.OTP.TTL)
	assert.Contains(t, cfg.Server.AllowedOrigins, "https://logi-events.vercel.app")
	assert.Same(t, AppConfig, cfg)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OTP_LENGTH", "8")
	t.Setenv("OTP_CHARSET", CharsetNumeric)
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 8, cfg.OTP.Length)
	assert.Equal(t, CharsetNumeric, cfg.OTP.Charset)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	})

	t.Run("loads values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("LOGI_TEST_KEY=from-file\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("LOGI_TEST_KEY") })

		require.NoError(t, LoadEnvFile(path))
		assert.Equal(t, "from-file", os.Getenv("LOGI_TEST_KEY"))
	})
}
