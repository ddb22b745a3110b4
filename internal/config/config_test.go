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
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.NotEmpty(t, cfg.StateFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://shop.example.com")
	t.Setenv("STOREFRONT_TIMEOUT", "15s")
	t.Setenv("STOREFRONT_STATE_FILE", "/tmp/state.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/state.json", cfg.StateFile)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"apiUrl: https://file.example.com\nrequestTimeout: 30s\n"), 0o600))
	t.Setenv("STOREFRONT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	// unset file fields keep their defaults
	assert.NotEmpty(t, cfg.StateFile)
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiUrl: https://file.example.com\n"), 0o600))
	t.Setenv("STOREFRONT_CONFIG", path)
	t.Setenv("STOREFRONT_API_URL", "https://env.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.APIURL)
}

func TestLoadRejectsBadDurationInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requestTimeout: soon\n"), 0o600))
	t.Setenv("STOREFRONT_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingConfigFileErrors(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestBadEnvTimeoutFallsBack(t *testing.T) {
	t.Setenv("STOREFRONT_TIMEOUT", "whenever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
}
