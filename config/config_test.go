package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, uint(3000), cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.PublicBaseURL)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "database.sqlite", cfg.DatabasePath)
	assert.Equal(t, "templates/default.html", cfg.LayoutPath)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, time.Duration(0), cfg.RetentionAge())
	assert.Equal(t, ":3000", cfg.ListenAddr())
	assert.Equal(t, int64(40_000_000), cfg.ThumbnailMaxPixels)
	assert.False(t, cfg.Tracing)
}

func TestLoadConfigTracingAndPixelCapFromEnv(t *testing.T) {
	t.Setenv("EMAILBUILDER_TRACING", "true")
	t.Setenv("EMAILBUILDER_TRACING_STDOUT", "true")
	t.Setenv("EMAILBUILDER_THUMBNAIL_MAX_PIXELS", "1000000")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.Tracing)
	assert.True(t, cfg.TracingStdout)
	assert.Equal(t, int64(1_000_000), cfg.ThumbnailMaxPixels)
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emailbuilder.yaml")
	yamlBody := []byte(`
port: 8081
publicBaseUrl: https://mail.example.com/
uploadDir: /var/lib/emailbuilder/uploads
retentionMaxAge: 720h
`)
	require.NoError(t, os.WriteFile(path, yamlBody, 0o600))

	t.Setenv("EMAILBUILDER_PORT", "9090")
	t.Setenv("EMAILBUILDER_ENV", "development")
	t.Setenv("EMAILBUILDER_RENDER_ALLOW_HTML", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, uint(9090), cfg.Port, "environment overrides the file")
	assert.Equal(t, "https://mail.example.com", cfg.PublicBaseURL)
	assert.Equal(t, "/var/lib/emailbuilder/uploads", cfg.UploadDir)
	assert.Equal(t, 720*time.Hour, cfg.RetentionAge())
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.RenderAllowHTML)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("EMAILBUILDER_RETENTION_MAX_AGE", "forever")
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retentionMaxAge")
	})
	t.Run("log level", func(t *testing.T) {
		t.Setenv("EMAILBUILDER_LOG_LEVEL", "chatty")
		_, err := LoadConfig("")
		require.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	assert.Equal(t, logrus.InfoLevel, newLogger(&buf, "bogus").GetLevel())
}
