package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// NormalizeBasePath returns value with exactly one leading and one trailing
// slash. Empty input is the root "/".
func NormalizeBasePath(value string) string {
	base := strings.TrimSpace(value)
	if base == "" || base == "/" {
		return "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return repeatedSlashes.ReplaceAllString(base, "/")
}

// JoinWithBase joins a site-absolute target onto a normalized base path.
func JoinWithBase(base, target string) string {
	target = strings.TrimPrefix(target, "/")
	if target == "" {
		return base
	}
	if base == "/" {
		return repeatedSlashes.ReplaceAllString("/"+target, "/")
	}
	return repeatedSlashes.ReplaceAllString(base+target, "/")
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// ResolveBasePath derives the base path from the environment:
// ELEVENTY_BASE_PATH or BASE_PATH when set, otherwise /<repo>/ on GitHub
// Pages builds of a repository without a CNAME file, otherwise "/".
func ResolveBasePath(sourceDir string, lookup LookupFunc) string {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	if explicit := get("ELEVENTY_BASE_PATH"); explicit != "" {
		return NormalizeBasePath(explicit)
	}
	if explicit := get("BASE_PATH"); explicit != "" {
		return NormalizeBasePath(explicit)
	}

	if get("GITHUB_PAGES") == "true" && !hasCNAME(sourceDir) {
		parts := strings.SplitN(get("GITHUB_REPOSITORY"), "/", 2)
		if len(parts) == 2 && parts[1] != "" {
			return NormalizeBasePath(parts[1])
		}
	}
	return "/"
}

func hasCNAME(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "CNAME"))
	return err == nil
}
