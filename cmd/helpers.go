package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kagai-portal/hanamachi/internal/config"
	"github.com/kagai-portal/hanamachi/internal/logging"
	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/registry"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `hanamachi init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the command logger. LOG_LEVEL and --verbose override the
// configured level; CI runs log JSON.
func newLogger(cfg *config.Config) *zap.Logger {
	level := cfg.LogLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if verbose {
		level = "debug"
	}
	format := logging.Format(cfg.LogFormat)
	if os.Getenv("CI") != "" {
		format = logging.FormatJSON
	}
	return logging.New(os.Stderr, level, format)
}

// newSource returns the document source for registry data: the remote base
// URL when one is given, otherwise the source directory.
func newSource(cfg *config.Config, remote string) (registry.Source, error) {
	if remote == "" {
		remote = cfg.Data.RemoteURL
	}
	if remote == "" {
		return registry.NewDirSource(cfg.SourceDir), nil
	}
	src, err := registry.NewHTTPSource(remote, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("remote data source: %w", err)
	}
	return src, nil
}

// allRegions lists the mapped regions followed by the catch-all.
func allRegions() []records.Region {
	out := make([]records.Region, 0, len(records.Regions)+1)
	out = append(out, records.Regions...)
	return append(out, records.RegionOther)
}
