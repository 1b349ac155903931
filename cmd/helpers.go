package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ziadkadry99/socialite/internal/config"
	"github.com/ziadkadry99/socialite/internal/db"
	"github.com/ziadkadry99/socialite/internal/networks"
	"github.com/ziadkadry99/socialite/internal/registry"
	"github.com/ziadkadry99/socialite/internal/render"
	"github.com/ziadkadry99/socialite/internal/settings"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `socialite init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// setupRegistry builds the settings and the registry of enabled networks.
func setupRegistry(cfg *config.Config) (*registry.Registry, *settings.Settings, error) {
	s := settings.NewDefault()
	if err := s.Setup(cfg.Settings); err != nil {
		return nil, nil, fmt.Errorf("applying settings: %w", err)
	}

	reg := registry.New()
	reg.SetLogger(slog.Default())
	if err := networks.Install(reg, s, cfg.EnabledNetworks()...); err != nil {
		return nil, nil, err
	}
	return reg, s, nil
}

// newRenderer builds a renderer from config.
func newRenderer(cfg *config.Config) (*render.Renderer, *registry.Registry, error) {
	reg, s, err := setupRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}
	r := render.New(reg, s,
		render.WithLogger(slog.Default()),
		render.WithMarkerClass(cfg.MarkerClass),
	)
	return r, reg, nil
}

// openActivityDB opens the activity database under the server data dir.
func openActivityDB(cfg *config.Config) (*db.DB, error) {
	path := filepath.Join(cfg.Server.DataDir, "socialite.db")
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	return database, nil
}
