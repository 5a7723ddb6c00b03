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
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.Twilio.Enabled())
	assert.NotEmpty(t, cfg.Mindee.ModelID)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "port: 9090\nstore_backend: redis\nredis_db: 2\ntoken_ttl: 1h\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tabie.yaml"), []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MINDEE_API_KEY=from-dotenv\n"), 0o644))
	t.Setenv("PORT", "7070")
	t.Setenv("S3_BUCKET", "receipts")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	// godotenv never overrides a variable that is already set.
	t.Setenv("MINDEE_API_KEY", "")
	os.Unsetenv("MINDEE_API_KEY")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "from-dotenv", cfg.Mindee.APIKey)
	assert.True(t, cfg.S3.Enabled())
}

func TestValidate(t *testing.T) {
	base := Config{Port: 8080, StoreBackend: BackendSQLite, JWTSecret: "s", TokenTTL: time.Hour}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"unknown backend", func(c *Config) { c.StoreBackend = "mongo" }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
