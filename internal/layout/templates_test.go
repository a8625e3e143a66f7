package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplatesOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "header.html"),
		[]byte("\n<header class=\"site-header\"><a href=\"{{homeUrl}}\">custom</a></header>\n"), 0o644))

	tmpl, err := LoadTemplates(dir)
	require.NoError(t, err)
	assert.Equal(t, `<header class="site-header"><a href="{{homeUrl}}">custom</a></header>`, tmpl.Header)
	assert.Equal(t, DefaultTemplates().Footer, tmpl.Footer)
}

func TestLoadTemplatesMissingDir(t *testing.T) {
	tmpl, err := LoadTemplates(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplates(), tmpl)
}
