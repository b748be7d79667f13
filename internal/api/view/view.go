// Package view renders the server-side HTML pages from templates embedded
// at build time. All user-provided values pass through html/template's
// contextual escaping.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/core/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page is the data contract shared by every template: layout chrome plus
// the page body. Form holds sticky values re-displayed after a validation
// failure; passwords are never put there.
type Page struct {
	Title   string
	Nav     []domain.Classification
	Visitor domain.Visitor
	Notices []domain.Notice
	Fields  map[string]string
	Form    map[string]string
	Data    any
}

// Field returns the validation message for a form field, if any.
func (p Page) Field(name string) string {
	return p.Fields[name]
}

// Value returns the sticky value for a form field, if any.
func (p Page) Value(name string) string {
	return p.Form[name]
}

// Renderer implements echo.Renderer over the embedded template set.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"money":  formatMoney,
		"number": formatNumber,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// formatMoney renders a dollar amount with thousands separators, e.g.
// $24,500.
func formatMoney(v float64) string {
	return "$" + formatNumber(int64(v))
}

// formatNumber inserts thousands separators into an integer.
func formatNumber(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
