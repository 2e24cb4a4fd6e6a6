package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
env:
  serviceName: qrstation
  log:
    level: info
http:
  port: 8090
backend:
  baseUrl: http://backend.local
qr:
  cutoffHour: 7
  validForSeconds: 30
  cutoffPollInterval: 30s
`

func writeConfig(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Chdir(dir)
}

func TestNew_LoadsYAML(t *testing.T) {
	writeConfig(t, testConfigYAML)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "qrstation", cfg.Env.ServiceName)
	assert.Equal(t, 8090, cfg.HTTP.Port)
	assert.Equal(t, "http://backend.local", cfg.Backend.BaseURL)
	assert.Equal(t, 7, cfg.QR.Cutoff())
	assert.Equal(t, 30*time.Second, cfg.QR.ValidFor())
	assert.Equal(t, 30*time.Second, cfg.QR.CutoffPollInterval)
}

func TestNew_EnvOverridesYAML(t *testing.T) {
	writeConfig(t, testConfigYAML)
	t.Setenv("QR_CUTOFFHOUR", "6")
	t.Setenv("BACKEND_BASEURL", "https://api.example.com")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.QR.Cutoff())
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
}

func TestNew_AppliesDefaults(t *testing.T) {
	writeConfig(t, "env:\n  serviceName: bare\n")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultBackendTimeout, cfg.Backend.Timeout)
	assert.Equal(t, defaultCutoffHour, cfg.QR.Cutoff())
	assert.Equal(t, defaultValidForSeconds, cfg.QR.ValidForSeconds)
	assert.Equal(t, defaultCutoffPollInterval, cfg.QR.CutoffPollInterval)
	assert.Equal(t, defaultErrorCorrectionLevel, cfg.QR.ErrorCorrectionLevel)
	assert.NotNil(t, cfg.Archive)
}

func TestNew_KeepsExplicitMidnightCutoff(t *testing.T) {
	writeConfig(t, "qr:\n  cutoffHour: 0\n")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.QR.Cutoff())
}

func TestNew_RejectsInvalidCutoffHour(t *testing.T) {
	writeConfig(t, "qr:\n  cutoffHour: 24\n")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qr.cutoffHour")
}

func TestNew_RejectsUnknownTimezone(t *testing.T) {
	writeConfig(t, "qr:\n  timezone: Mars/Olympus\n")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load timezone")
}

func TestNew_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml not found")
}
