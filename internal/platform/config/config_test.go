package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 3*time.Second, cfg.ToastTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\ncurrency: TZS\nwhatsapp_phone: \"+255 700 000 000\"\n"), 0o600))

	t.Setenv("STORE_CURRENCY", "UGX")
	t.Setenv("TOAST_TTL", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "UGX", cfg.Currency)
	assert.Equal(t, "+255 700 000 000", cfg.WhatsAppPhone)
	assert.Equal(t, 5*time.Second, cfg.ToastTTL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ALERT_CHECK_INTERVAL", "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, "ALERT_CHECK_INTERVAL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "oracle" }, true},
		{"redis without url", func(c *Config) { c.CartStorage = "redis" }, true},
		{"redis with url", func(c *Config) { c.CartStorage = "redis"; c.RedisURL = "redis://localhost:6379/0" }, false},
		{"zero toast ttl", func(c *Config) { c.ToastTTL = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
