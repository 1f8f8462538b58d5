package blogfront

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Renderer renders the embedded page layouts. base.html is the shell;
// each page template fills its content block.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl := template.New("").Funcs(template.FuncMap{
		// Post content arrives as rendered HTML from the CMS and has
		// already crossed the normalization boundary.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"headHTML": func(m *MemoryHead) template.HTML { return template.HTML(m.Render()) },
	})
	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page is the data every layout receives.
type Page struct {
	Site       SiteConfig
	Head       *MemoryHead
	Categories []Category
	Active     Category
	Sort       SortOrder
	Query      string
	Greeting   string
	Posts      []Post
	Post       *Post
	Prefs      Preferences
	Notice     string // soft inline failure notice, empty when all is well
}

// RenderPage executes the named page template into w.
func (r *Renderer) RenderPage(w *bytes.Buffer, name string, data Page) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Render writes the named page template as an HTTP response.
func (r *Renderer) Render(c echo.Context, code int, name string, data Page) error {
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, name, data); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

// RenderError writes the static error page, falling back to plain text if
// even that fails.
func (r *Renderer) RenderError(c echo.Context, code int, data Page) {
	if err := r.Render(c, code, "error.html", data); err != nil {
		_ = c.String(http.StatusInternalServerError, "خطأ في الخادم")
	}
}
