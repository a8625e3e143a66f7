package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeBasePath(t *testing.T) {
	tests := map[string]string{
		"":            "/",
		"/":           "/",
		"repo":        "/repo/",
		"/repo":       "/repo/",
		" repo/ ":     "/repo/",
		"//a//b":      "/a/b/",
		"/hanamachi/": "/hanamachi/",
	}
	for in, want := range tests {
		if got := NormalizeBasePath(in); got != want {
			t.Errorf("NormalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinWithBase(t *testing.T) {
	tests := []struct {
		base, target, want string
	}{
		{"/", "/css/", "/css/"},
		{"/", "", "/"},
		{"/repo/", "/pages/events.html", "/repo/pages/events.html"},
		{"/repo/", "", "/repo/"},
		{"/repo/", "images//a.jpg", "/repo/images/a.jpg"},
	}
	for _, tt := range tests {
		if got := JoinWithBase(tt.base, tt.target); got != tt.want {
			t.Errorf("JoinWithBase(%q, %q) = %q, want %q", tt.base, tt.target, got, tt.want)
		}
	}
}

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestResolveBasePath(t *testing.T) {
	withCNAME := t.TempDir()
	if err := os.WriteFile(filepath.Join(withCNAME, "CNAME"), []byte("hanamachi-portal.com\n"), 0644); err != nil {
		t.Fatal(err)
	}
	bare := t.TempDir()

	pages := map[string]string{"GITHUB_PAGES": "true", "GITHUB_REPOSITORY": "kagai-portal/hanamachi"}

	tests := []struct {
		name string
		dir  string
		env  map[string]string
		want string
	}{
		{"nothing set", bare, nil, "/"},
		{"explicit eleventy", bare, map[string]string{"ELEVENTY_BASE_PATH": "site", "BASE_PATH": "/other/"}, "/site/"},
		{"explicit base", bare, map[string]string{"BASE_PATH": "/other"}, "/other/"},
		{"github pages", bare, pages, "/hanamachi/"},
		{"github pages with cname", withCNAME, pages, "/"},
		{"github pages without repo", bare, map[string]string{"GITHUB_PAGES": "true"}, "/"},
		{"pages flag false", bare, map[string]string{"GITHUB_PAGES": "false", "GITHUB_REPOSITORY": "a/b"}, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveBasePath(tt.dir, lookupFrom(tt.env)); got != tt.want {
				t.Errorf("ResolveBasePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigBasePathPrefersExplicit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.BasePath = "portal"
	if got := cfg.BasePath(); got != "/portal/" {
		t.Errorf("BasePath() = %q, want /portal/", got)
	}
}
