package templates

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"dinopark/internal/apperr"
)

// Engine is the template set parsed once at startup and shared read-only
// across request handlers.
type Engine struct {
	t *template.Template
}

func Parse(dir string) (*Engine, error) {
	const op = "templates.Parse"

	t, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse templates in %s: %w", op, dir, err)
	}

	return &Engine{t: t}, nil
}

func (e *Engine) Render(name string, data any) (string, error) {
	var sb strings.Builder

	if err := e.t.ExecuteTemplate(&sb, name, data); err != nil {
		return "", apperr.Template(fmt.Sprintf("failed to render %s", name), err)
	}

	return sb.String(), nil
}
