package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to hanamachi! Let's configure your portal build.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site title.
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: cfg.Site.Title,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.Site.Title = title

	// 2. Public URL, used for the sitemap.
	urlPrompt := promptui.Prompt{
		Label:   "Public site URL",
		Default: cfg.Site.URL,
		Validate: func(s string) error {
			if s != "" && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
				return fmt.Errorf("must start with http:// or https://")
			}
			return nil
		},
	}
	siteURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site url: %w", err)
	}
	cfg.Site.URL = strings.TrimRight(siteURL, "/")

	// 3. Hosting, which decides the base path.
	hostPrompt := promptui.Select{
		Label: "Where is the site hosted?",
		Items: []string{
			"custom domain (served from /)",
			"GitHub Pages project site (served from /<repo>/)",
			"other sub-path",
		},
	}
	hostIdx, _, err := hostPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("hosting selection: %w", err)
	}
	switch hostIdx {
	case 1:
		cfg.Site.BasePath = NormalizeBasePath(filepath.Base(mustGetwd()))
	case 2:
		basePrompt := promptui.Prompt{Label: "Base path", Default: "/"}
		base, err := basePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("base path: %w", err)
		}
		cfg.Site.BasePath = NormalizeBasePath(base)
	}

	// 4. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the built site",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 5. Event data.
	eventsPrompt := promptui.Select{
		Label: "Event calendar data",
		Items: []string{
			"built-in schedule",
			"load from spreadsheet / JSON cache",
		},
	}
	eventsIdx, _, err := eventsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("event data selection: %w", err)
	}
	cfg.Data.UseBuiltinEvents = eventsIdx == 0

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = append(cfg.Exclude, SplitList(excludeStr)...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(cfg.SourceDir, cfg.Data.PlacesTabular)); os.IsNotExist(err) {
		fmt.Printf("\nNote: %s was not found; the map will only work from %s.\n",
			cfg.Data.PlacesTabular, cfg.Data.PlacesJSON)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// SplitList splits a comma-separated string, dropping blank items.
func SplitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "/"
	}
	return wd
}
