package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Base URL of the storefront REST API.
	APIURL string

	// Per-request HTTP client timeout. Zero disables the timeout, which
	// matches the original front-end (a hung request just hangs).
	RequestTimeout time.Duration

	// Path of the JSON file holding the persisted session (token, cartId,
	// cached user). Defaults to <user config dir>/storefront/session.json.
	StateFile string
}

// Load builds the config from defaults, an optional YAML file pointed at by
// STOREFRONT_CONFIG, and env var overrides, in that order.
func Load() (Config, error) {
	cfg := Config{
		APIURL:         "http://localhost:8080",
		RequestTimeout: 0,
		StateFile:      defaultStateFile(),
	}

	if path := strings.TrimSpace(os.Getenv("STOREFRONT_CONFIG")); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	if v := getenv("STOREFRONT_API_URL", ""); v != "" {
		cfg.APIURL = v
	}
	if v := getenv("STOREFRONT_TIMEOUT", ""); v != "" {
		cfg.RequestTimeout = parseDuration(v, cfg.RequestTimeout)
	}
	if v := getenv("STOREFRONT_STATE_FILE", ""); v != "" {
		cfg.StateFile = v
	}

	return cfg, nil
}

// fileConfig is the YAML shape; durations are written as strings ("10s").
type fileConfig struct {
	APIURL         string `yaml:"apiUrl"`
	RequestTimeout string `yaml:"requestTimeout"`
	StateFile      string `yaml:"stateFile"`
}

func loadFile(path string) (Config, error) {
	var fc fileConfig
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg := Config{
		APIURL:    fc.APIURL,
		StateFile: fc.StateFile,
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid requestTimeout %q: %w", fc.RequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	return cfg, nil
}

func merge(base, over Config) Config {
	if over.APIURL != "" {
		base.APIURL = over.APIURL
	}
	if over.RequestTimeout != 0 {
		base.RequestTimeout = over.RequestTimeout
	}
	if over.StateFile != "" {
		base.StateFile = over.StateFile
	}
	return base
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "storefront", "session.json")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
