package config

import "github.com/ziadkadry99/socialite/internal/instance"

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = ".socialite.yml"

// DefaultExcludes are glob patterns never rendered.
var DefaultExcludes = []string{
	"node_modules/**",
	"vendor/**",
	".git/**",
	"**/_*.html",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MarkerClass:    instance.MarkerClass,
		PagesDir:       "site",
		OutputDir:      "public",
		Include:        []string{"**/*.html", "**/*.md"},
		Exclude:        append([]string(nil), DefaultExcludes...),
		MaxConcurrency: 4,
		Server: ServerConfig{
			Port:    8080,
			DataDir: ".socialite",
		},
	}
}
