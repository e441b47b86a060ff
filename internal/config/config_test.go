package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(900), cfg.JWT.AccessExpiry)
	assert.Equal(t, uint32(64*1024), cfg.Argon2.Memory)
	assert.Equal(t, uint8(2), cfg.Argon2.Parallelism)
	assert.Equal(t, 10*time.Minute, cfg.OTP.VerificationExpiry)
	assert.Equal(t, 5*time.Minute, cfg.OTP.ResetPasswordExpiry)
	assert.Equal(t, 5, cfg.Lockout.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Lockout.Cooldown)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("OTP_RESET_PASSWORD_EXPIRY_MINUTES", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.qonnect.test, https://admin.qonnect.test,")
	t.Setenv("SECURE_IS_DEVELOPMENT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, 30*time.Minute, cfg.OTP.ResetPasswordExpiry)
	assert.Equal(t, []string{"https://app.qonnect.test", "https://admin.qonnect.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Secure.IsDevelopment)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qonnect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("WEBHOOK_URL: https://hooks.qonnect.test\nLOCKOUT_MAX_ATTEMPTS: 3\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.qonnect.test", cfg.Webhook.URL)
	assert.Equal(t, 3, cfg.Lockout.MaxAttempts)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "0")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_ACCESS_EXPIRY", "900")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	require.Error(t, err)
}
