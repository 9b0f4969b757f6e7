// Package views renders the server-side HTML pages. Every page template is
// parsed together with the shared layout at startup, so a broken template
// fails boot instead of the first request that hits it.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

// Data is the payload every template receives.
type Data struct {
	Title   string
	Vendor  *models.Vendor
	Flashes []session.Flash
	Errors  map[string]string
	Form    any
	Query   string
	Content any
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates. imageURL resolves a stored image key,
// string or *string, to a browser-reachable URL and is exposed to templates
// as "imageURL".
func New(imageURL func(string) string) (*Renderer, error) {
	if imageURL == nil {
		imageURL = func(key string) string { return "/uploads/" + key }
	}

	funcs := template.FuncMap{
		"imageURL": func(key any) string {
			switch k := key.(type) {
			case string:
				return imageURL(k)
			case *string:
				if k != nil {
					return imageURL(*k)
				}
			}
			return ""
		},
		"price": FormatPrice,
	}

	entries, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		if entry == layoutFile {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(entry, "templates/"), ".html")
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, layoutFile, entry)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}

// FormatPrice renders a money value with the Brazilian comma separator.
func FormatPrice(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}
