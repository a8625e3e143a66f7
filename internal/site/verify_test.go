package site

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyFindsLegacyMarkup(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "index.html"), `<html><body>
<header class="site-header"></header><main></main><footer class="site-footer"></footer>
</body></html>`)
	writeTestFile(t, filepath.Join(dir, "pages", "press.html"), `<html><body>
<header class="site-header"><nav><a href="#">News・イベント</a><a href="#">プレスリリース</a></nav>
<img src="../images/logo.png"></header>
<header class="site-header"></header>
<script src="../js/template-loader.js?v=2"></script>
</body></html>`)

	report, err := Verify(dir)
	require.NoError(t, err)
	require.Len(t, report.Pages, 2)
	assert.Equal(t, 1, report.Passed())
	assert.False(t, report.OK())

	assert.Equal(t, "index.html", report.Pages[0].Path)
	assert.True(t, report.Pages[0].OK())

	press := report.Pages[1]
	assert.Equal(t, "pages/press.html", press.Path)
	assert.Equal(t, []string{
		"expected one site header, found 2",
		"expected one site footer, found 0",
		"legacy navigation label remains: News・イベント",
		"legacy navigation label remains: プレスリリース",
		"legacy logo path remains: ../images/logo.png",
		"client-side template loader still referenced",
	}, press.Issues)
}
