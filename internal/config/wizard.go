package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/ziadkadry99/socialite/internal/networks"
)

// siteTypePatterns maps marker files of static site generators to a
// display name and the directory their pages live in.
var siteTypePatterns = []struct {
	Marker   string
	Name     string
	PagesDir string
}{
	{"hugo.toml", "Hugo", "public"},
	{"_config.yml", "Jekyll", "_site"},
	{"mkdocs.yml", "MkDocs", "site"},
	{"astro.config.mjs", "Astro", "dist"},
	{"docusaurus.config.js", "Docusaurus", "build"},
}

// detectSiteType checks dir for well-known static site markers.
func detectSiteType(dir string) (name, pagesDir string) {
	for _, p := range siteTypePatterns {
		if _, err := os.Stat(filepath.Join(dir, p.Marker)); err == nil {
			return p.Name, p.PagesDir
		}
	}
	return "", "site"
}

// RunWizard runs an interactive configuration wizard, saves the result
// to path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to socialite! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	siteType, pagesDir := detectSiteType(".")
	if siteType != "" {
		fmt.Printf("Detected site generator: %s\n\n", siteType)
	}

	pagesPrompt := promptui.Prompt{
		Label:   "Directory with the pages to render",
		Default: pagesDir,
	}
	var err error
	cfg.PagesDir, err = pagesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("pages dir: %w", err)
	}

	outputPrompt := promptui.Prompt{
		Label:   "Output directory for rendered pages",
		Default: cfg.OutputDir,
		Validate: func(s string) error {
			if filepath.Clean(s) == filepath.Clean(cfg.PagesDir) {
				return fmt.Errorf("must differ from the pages directory")
			}
			return nil
		},
	}
	cfg.OutputDir, err = outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	var enabled []string
	for _, name := range networks.Names() {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Enable %s", name),
			IsConfirm: true,
			Default:   "y",
		}
		if _, err := confirm.Run(); err == nil {
			enabled = append(enabled, name)
		} else if err != promptui.ErrAbort {
			return nil, fmt.Errorf("network selection: %w", err)
		}
	}
	if len(enabled) < len(networks.Names()) {
		cfg.Networks = enabled
	}

	settings := make(map[string]any)
	if contains(enabled, "facebook") {
		appID, err := (&promptui.Prompt{Label: "Facebook app id (blank to skip)"}).Run()
		if err != nil {
			return nil, fmt.Errorf("facebook app id: %w", err)
		}
		if appID != "" {
			settings["facebook"] = map[string]any{"appId": appID}
		}
	}
	if contains(enabled, "twitter") {
		lang, err := (&promptui.Prompt{Label: "Twitter widget language", Default: "en"}).Run()
		if err != nil {
			return nil, fmt.Errorf("twitter language: %w", err)
		}
		if lang != "en" {
			settings["twitter"] = map[string]any{"lang": lang}
		}
	}
	if len(settings) > 0 {
		cfg.Settings = settings
	}

	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
