package routing

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"
)

// OriginPlaceholder is replaced by the validated origin in the iframe page.
const OriginPlaceholder = "ORIGIN"

//go:embed static/login-status-iframe.html
var embeddedIframe string

// Template is the login status iframe page. Loaded once at startup and
// read-only afterwards.
type Template struct {
	source string
	body   string
}

// LoadTemplate reads the page from path, or uses the embedded page when path
// is empty. A missing file or a page without the placeholder is an error so
// the service refuses to start.
func LoadTemplate(path string) (*Template, error) {
	source, body := "embedded", embeddedIframe
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load iframe template: %w", err)
		}
		source, body = path, string(data)
	}
	if !strings.Contains(body, OriginPlaceholder) {
		return nil, fmt.Errorf("iframe template %s has no %s placeholder", source, OriginPlaceholder)
	}
	return &Template{source: source, body: body}, nil
}

func (t *Template) Source() string { return t.source }

// Render substitutes every placeholder. The origin is JS-string escaped since
// wildcard clients accept arbitrary origin values.
func (t *Template) Render(origin string) string {
	return strings.ReplaceAll(t.body, OriginPlaceholder, template.JSEscapeString(origin))
}
