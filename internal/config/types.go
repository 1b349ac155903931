package config

// Config is the top-level socialite configuration, corresponding to .socialite.yml.
type Config struct {
	// MarkerClass is the class that marks elements for discovery.
	MarkerClass string `yaml:"marker_class" koanf:"marker_class"`
	// Networks lists the built-in networks to install. Empty installs all.
	Networks []string `yaml:"networks" koanf:"networks"`
	// Settings are per-network overrides, e.g. settings.facebook.appId.
	Settings       map[string]any `yaml:"settings,omitempty" koanf:"settings"`
	PagesDir       string         `yaml:"pages_dir" koanf:"pages_dir"`
	OutputDir      string         `yaml:"output_dir" koanf:"output_dir"`
	Include        []string       `yaml:"include" koanf:"include"`
	Exclude        []string       `yaml:"exclude" koanf:"exclude"`
	AssumeReady    bool           `yaml:"assume_ready" koanf:"assume_ready"`
	MaxConcurrency int            `yaml:"max_concurrency" koanf:"max_concurrency"`
	Server         ServerConfig   `yaml:"server" koanf:"server"`
}

// ServerConfig holds settings for `socialite serve`.
type ServerConfig struct {
	Port     int    `yaml:"port" koanf:"port"`
	DataDir  string `yaml:"data_dir" koanf:"data_dir"`
	AllowAll bool   `yaml:"allow_all" koanf:"allow_all"`
}
