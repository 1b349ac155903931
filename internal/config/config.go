package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/ziadkadry99/socialite/internal/networks"
	"github.com/ziadkadry99/socialite/internal/settings"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore
// separates nesting levels: SOCIALITE_SERVER__PORT sets server.port.
const EnvPrefix = "SOCIALITE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SOCIALITE_*).
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

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Settings = canonicalSettings(cfg.Settings)

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// canonicalSettings restores the casing of built-in setting names, which
// arrive lowercased from the environment (appid becomes appId). Unknown
// keys are kept as given.
func canonicalSettings(in map[string]any) map[string]any {
	if len(in) == 0 {
		return in
	}
	defaults := settings.Defaults()
	out := make(map[string]any, len(in))
	for name, v := range in {
		m, ok := v.(map[string]any)
		known, _ := defaults[name].(map[string]any)
		if !ok || len(known) == 0 {
			out[name] = v
			continue
		}
		fixed := make(map[string]any, len(m))
		for key, val := range m {
			fixed[canonicalKey(key, known)] = val
		}
		out[name] = fixed
	}
	return out
}

func canonicalKey(key string, known map[string]any) string {
	if _, ok := known[key]; ok {
		return key
	}
	for k := range known {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
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
	if c.MarkerClass == "" || strings.ContainsAny(c.MarkerClass, " \t\n") {
		return fmt.Errorf("marker_class must be a single class name, got %q", c.MarkerClass)
	}

	known := make(map[string]bool)
	for _, name := range networks.Names() {
		known[name] = true
	}
	for _, name := range c.Networks {
		if !known[name] {
			return fmt.Errorf("unknown network %q: must be one of %s", name, strings.Join(networks.Names(), ", "))
		}
	}

	for name, v := range c.Settings {
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("settings.%s must be a mapping", name)
		}
	}

	if c.PagesDir == "" {
		return fmt.Errorf("pages_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if filepath.Clean(c.PagesDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from pages_dir")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	return nil
}

// EnabledNetworks returns the networks to install; all built-ins when
// none are configured.
func (c *Config) EnabledNetworks() []string {
	if len(c.Networks) == 0 {
		return networks.Names()
	}
	return c.Networks
}
