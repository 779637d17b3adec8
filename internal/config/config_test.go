package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_URL", "postgres://localhost/daybook")
	for _, k := range []string{"PORT", "AUTH_MODE", "LOG_LEVEL", "CORS_ORIGINS", "GEMINI_MODEL", "R2_ACCOUNT_ID", "JWT_SECRET"} {
		unsetForTest(t, k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, ":4000", cfg.Address())
	assert.Equal(t, AuthModeDisabled, cfg.AuthMode)
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CorsOrigins)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.env")
	content := "DB_URL=postgres://db/daybook\nPORT=9090\nAUTH_MODE=token\nLOG_LEVEL=debug\nCORS_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Setenv("ENV_FILE", file)
	// godotenv never overrides variables that are already set.
	for _, k := range []string{"DB_URL", "PORT", "AUTH_MODE", "LOG_LEVEL", "CORS_ORIGINS"} {
		unsetForTest(t, k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing db url", func(c *Config) { c.DB_URL = "" }, true},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "basic" }, true},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{DB_URL: "postgres://x", Port: 4000, JWTSecret: "s", AuthMode: AuthModeDisabled}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestR2Enabled(t *testing.T) {
	r2 := R2Config{AccountID: "acc", AccessKeyID: "k", SecretAccessKey: "s", BucketName: "b"}
	assert.True(t, r2.Enabled())
	r2.BucketName = ""
	assert.False(t, r2.Enabled())
}

// unsetForTest removes key for the duration of the test and restores it afterwards.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
