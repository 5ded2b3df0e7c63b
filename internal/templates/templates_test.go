package templates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dinopark/internal/apperr"
)

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	return dir
}

func TestParseAndRender(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"greet.html": `<p>Hello {{.Name}}</p>`,
	})

	e, err := Parse(dir)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, err := e.Render("greet.html", map[string]string{"Name": "Rex"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(out, "Hello Rex") {
		t.Errorf("output = %q", out)
	}
}

func TestParseFailsOnBrokenTemplate(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"broken.html": `{{end}}`,
	})

	if _, err := Parse(dir); err == nil {
		t.Error("Parse accepted a broken template")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"greet.html": `<p>hi</p>`,
	})

	e, err := Parse(dir)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	_, err = e.Render("missing.html", nil)
	if err == nil {
		t.Fatal("Render succeeded for an unknown template")
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindTemplate {
		t.Errorf("expected Template kind, got %v", err)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	dir := writeTemplates(t, map[string]string{
		"greet.html": `<p>{{.Name}}</p>`,
	})

	e, err := Parse(dir)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, err := e.Render("greet.html", map[string]string{"Name": `<script>alert(1)</script>`})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if strings.Contains(out, "<script>") {
		t.Errorf("output is not escaped: %q", out)
	}
}
