// Package render turns a list page into HTML using the embedded templates.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/Bhavishyakolloori/todolist-v1/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer executes the list template.
type Renderer struct {
	list *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/list.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{list: t}, nil
}

// List writes the page to w. The template runs into a buffer first so a
// failure never leaves a half-written page.
func (r *Renderer) List(w io.Writer, page services.Page) error {
	var buf bytes.Buffer
	if err := r.list.Execute(&buf, page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet directory.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
