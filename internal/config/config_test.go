package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-console/internal/gateway"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api-rest-orange-box.vercel.app/api/v1", cfg.API.PrimaryURL)
	assert.Equal(t, "http://localhost:3000/api/v1", cfg.API.FallbackURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 100, cfg.Providers.DirectoryLimit)
	assert.Equal(t, time.Minute, cfg.Providers.CacheTTL)
	assert.Equal(t, 20, cfg.Products.ScopedLimit)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CONSOLE_API_TIMEOUT", "3s")
	t.Setenv("CONSOLE_LOG_FORMAT", "json")
	t.Setenv("CONSOLE_PROVIDERS_DIRECTORY_LIMIT", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 250, cfg.Providers.DirectoryLimit)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: admin.example.com\napi:\n  primary_url: https://api.example.com/api/v1\n"), 0o600))
	t.Setenv("CONSOLE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "admin.example.com", cfg.Host)
	assert.Equal(t, "https://api.example.com/api/v1", cfg.API.PrimaryURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONSOLE_LOG_LEVEL", "chatty")
	_, err := Load()
	assert.Error(t, err)
}

func TestSelectEndpoints(t *testing.T) {
	const primary, fallback = "https://api.example.com/api/v1", "http://localhost:3000/api/v1"

	tests := []struct {
		host string
		want gateway.Endpoints
	}{
		{"localhost", gateway.Endpoints{Primary: fallback}},
		{"localhost:8080", gateway.Endpoints{Primary: fallback}},
		{"127.0.0.1", gateway.Endpoints{Primary: fallback}},
		{"[::1]:8080", gateway.Endpoints{Primary: fallback}},
		{"admin.example.com", gateway.Endpoints{Primary: primary, Fallback: fallback}},
		{"", gateway.Endpoints{Primary: primary, Fallback: fallback}},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectEndpoints(tt.host, primary, fallback))
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Level: "warn", Format: "json"}.Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())

	LogConfig{Level: "debug", Format: "json"}.Logger(&buf).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
