package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Site.Title != "全国花街ポータル" {
		t.Errorf("expected default title, got %q", cfg.Site.Title)
	}
	if cfg.OutputDir != "_site" {
		t.Errorf("expected default output_dir %q, got %q", "_site", cfg.OutputDir)
	}
	if cfg.SubpageMarker != "/pages/" {
		t.Errorf("expected default subpage_marker /pages/, got %q", cfg.SubpageMarker)
	}
	if !cfg.Data.UseBuiltinEvents {
		t.Error("expected built-in events by default")
	}
	if cfg.Serve.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Serve.Port)
	}
}

func TestDefaultConfigDoesNotShareSlices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude[0] = "changed"
	if DefaultExcludes[0] == "changed" {
		t.Error("DefaultConfig must copy DefaultExcludes")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hanamachi.yml")

	original := DefaultConfig()
	original.Site.BasePath = "/hanamachi/"
	original.OutputDir = "dist"
	original.Data.UseBuiltinEvents = false
	original.Calendar.Month = "2025-04"
	original.Include = []string{"css/**", "images/**"}
	original.Serve.Port = 3000

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Site.BasePath != original.Site.BasePath {
		t.Errorf("base_path: got %q, want %q", loaded.Site.BasePath, original.Site.BasePath)
	}
	if loaded.OutputDir != original.OutputDir {
		t.Errorf("output_dir: got %q, want %q", loaded.OutputDir, original.OutputDir)
	}
	if loaded.Data.UseBuiltinEvents {
		t.Error("use_builtin_events: got true, want false")
	}
	if loaded.Calendar.Month != "2025-04" {
		t.Errorf("calendar.month: got %q", loaded.Calendar.Month)
	}
	if loaded.Serve.Port != 3000 {
		t.Errorf("serve.port: got %d, want 3000", loaded.Serve.Port)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Fatalf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.OutputDir != "_site" {
		t.Errorf("expected default output_dir, got %q", cfg.OutputDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hanamachi.yml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("HANAMACHI_OUTPUT_DIR", "public")
	t.Setenv("HANAMACHI_SERVE__PORT", "9090")
	t.Setenv("HANAMACHI_SITE__BASE_PATH", "/repo/")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputDir != "public" {
		t.Errorf("env override failed: got %q, want %q", loaded.OutputDir, "public")
	}
	if loaded.Serve.Port != 9090 {
		t.Errorf("nested env override failed: got %d, want 9090", loaded.Serve.Port)
	}
	if loaded.Site.BasePath != "/repo/" {
		t.Errorf("nested env override failed: got %q", loaded.Site.BasePath)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hanamachi.yml")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HANAMACHI_LOG_LEVEL=debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("HANAMACHI_LOG_LEVEL") })

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf(".env override failed: got %q, want debug", loaded.LogLevel)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty title", func(c *Config) { c.Site.Title = " " }},
		{"empty output", func(c *Config) { c.OutputDir = "" }},
		{"output equals source", func(c *Config) { c.OutputDir = "./" }},
		{"bad marker", func(c *Config) { c.SubpageMarker = "pages" }},
		{"bad port", func(c *Config) { c.Serve.Port = 70000 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad month", func(c *Config) { c.Calendar.Month = "2025/04" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestCalendarMonth(t *testing.T) {
	now := time.Date(2025, 7, 19, 15, 0, 0, 0, time.UTC)

	cfg := DefaultConfig()
	got, err := cfg.CalendarMonth(now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default month: got %v", got)
	}

	cfg.Calendar.Month = "2025-04"
	got, err = cfg.CalendarMonth(now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Year() != 2025 || got.Month() != time.April || got.Day() != 1 {
		t.Errorf("configured month: got %v", got)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.psd", []string{"**/*.psd"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := SplitList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("SplitList(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("SplitList(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
