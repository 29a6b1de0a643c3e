package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/policyvote/internal/prefs"
)

const envPrefix = "POLICYVOTE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (POLICYVOTE_*). A double underscore
// separates nested keys: POLICYVOTE_LIVE__MAX_ATTEMPTS -> live.max_attempts.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("api_prefix %q must start with /", c.APIPrefix)
	}
	if !strings.HasPrefix(c.WSPath, "/") {
		return fmt.Errorf("ws_path %q must start with /", c.WSPath)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if _, err := prefs.ParseLang(c.Language); err != nil {
		return fmt.Errorf("language: %w", err)
	}
	if _, err := prefs.ParseTheme(c.Theme); err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	durations := map[string]int64{
		"request_timeout":         int64(c.RequestTimeout),
		"draft.autosave_interval": int64(c.Draft.AutosaveInterval),
		"draft.max_age":           int64(c.Draft.MaxAge),
		"live.base_delay":         int64(c.Live.BaseDelay),
		"notice.success_ttl":      int64(c.Notice.SuccessTTL),
		"notice.error_ttl":        int64(c.Notice.ErrorTTL),
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	if c.Live.MaxAttempts < 0 {
		return fmt.Errorf("live.max_attempts must be non-negative")
	}
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", raw)
	}
	return nil
}

// ProfileDir returns DataDir with a leading ~ expanded.
func (c *Config) ProfileDir() (string, error) {
	dir := c.DataDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

// ProfilePath returns the location of the per-device SQLite profile.
func (c *Config) ProfilePath() (string, error) {
	dir, err := c.ProfileDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile.db"), nil
}
