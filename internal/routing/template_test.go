package routing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplateEmbedded(t *testing.T) {
	tpl, err := LoadTemplate("")
	require.NoError(t, err)
	assert.Equal(t, "embedded", tpl.Source())

	out := tpl.Render("https://app.example.com")
	assert.NotContains(t, out, OriginPlaceholder)
	assert.Contains(t, out, `"https://app.example.com"`)
}

func TestLoadTemplateFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iframe.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>ORIGIN|ORIGIN</p>"), 0o600))

	tpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, path, tpl.Source())
	assert.Equal(t, "<p>https://a.example|https://a.example</p>", tpl.Render("https://a.example"))
}

func TestLoadTemplateErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTemplate(filepath.Join(dir, "missing.html"))
	assert.Error(t, err)

	path := filepath.Join(dir, "noplaceholder.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>origin</p>"), 0o600))
	_, err = LoadTemplate(path)
	assert.ErrorContains(t, err, "placeholder")
}

func TestRenderEscapesOrigin(t *testing.T) {
	tpl := &Template{source: "test", body: `var allowed = "ORIGIN";`}

	out := tpl.Render(`x";alert(1);//</script>`)
	assert.Equal(t, `var allowed = "x\";alert(1);//\u003C/script\u003E";`, out)
	assert.False(t, strings.Contains(out, "</script>"))
}
