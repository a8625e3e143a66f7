package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HANAMACHI_"

// Load reads configuration from the given YAML file, then overlays a .env
// file next to it and environment variable overrides (HANAMACHI_*). Nested
// keys use a double underscore: HANAMACHI_SERVE__PORT -> serve.port.
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

	// Variables already set in the environment win over .env.
	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(dotenv); err == nil {
		if err := godotenv.Load(dotenv); err != nil {
			return nil, fmt.Errorf("reading %s: %w", dotenv, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
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

var validFormats = map[string]bool{
	"":        true,
	"json":    true,
	"console": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Site.Title) == "" {
		return errors.New("site.title is required")
	}
	if c.SourceDir == "" {
		return errors.New("source_dir is required")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if filepath.Clean(c.SourceDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir %q must differ from source_dir", c.OutputDir)
	}
	if !strings.HasPrefix(c.SubpageMarker, "/") || !strings.HasSuffix(c.SubpageMarker, "/") {
		return fmt.Errorf("invalid subpage_marker %q: must start and end with /", c.SubpageMarker)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("invalid serve.port %d", c.Serve.Port)
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level %q", c.LogLevel)
		}
	}
	if !validFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q: must be json or console", c.LogFormat)
	}
	if _, err := c.CalendarMonth(time.Now()); err != nil {
		return err
	}
	return nil
}

// CalendarMonth returns the first day of the configured calendar month, or of
// now's month when none is configured.
func (c *Config) CalendarMonth(now time.Time) (time.Time, error) {
	if c.Calendar.Month == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01", c.Calendar.Month, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar.month %q: want YYYY-MM", c.Calendar.Month)
	}
	return t, nil
}

// BasePath returns the normalized base path the site is published under.
func (c *Config) BasePath() string {
	if c.Site.BasePath != "" {
		return NormalizeBasePath(c.Site.BasePath)
	}
	return ResolveBasePath(c.SourceDir, os.LookupEnv)
}
