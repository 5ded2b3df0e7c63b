package callback

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dinopark/internal/apperr"
	"dinopark/internal/middleware/sessionauth"
	"dinopark/internal/models"
	"dinopark/internal/templates"
)

type fakeCompleter struct {
	sess models.Session
	err  error

	calls int
}

func (f *fakeCompleter) CompleteLogin(_ context.Context, state, code string) (models.Session, error) {
	f.calls++

	if f.err != nil {
		return models.Session{}, f.err
	}

	return f.sess, nil
}

func testEngine(t *testing.T) *templates.Engine {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "error.html"), []byte(`<p>{{.Message}}</p>`), 0o644)
	if err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	e, err := templates.Parse(dir)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	return e
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == sessionauth.CookieName {
			return c
		}
	}

	return nil
}

func TestCallbackSuccessSetsCookieAndRedirects(t *testing.T) {
	completer := &fakeCompleter{sess: models.Session{
		ID:        "sid-abc",
		Subject:   "42",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}}

	handler := New(discardLogger(), completer, testEngine(t), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc&state=S1", nil)
	handler(w, r)

	res := w.Result()
	if res.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", res.StatusCode)
	}
	if loc := res.Header.Get("Location"); loc != "/" {
		t.Errorf("redirect to %q, want /", loc)
	}

	c := sessionCookie(res)
	if c == nil {
		t.Fatal("session cookie was not set")
	}
	if c.Value != "sid-abc" {
		t.Errorf("cookie value = %q, want sid-abc", c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if c.MaxAge != 86400 {
		t.Errorf("cookie max-age = %d, want 86400", c.MaxAge)
	}
}

func TestCallbackUnknownStateReturns401WithoutCookie(t *testing.T) {
	completer := &fakeCompleter{err: apperr.Unauthorized("state mismatch")}

	handler := New(discardLogger(), completer, testEngine(t), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc&state=ZZZ", nil)
	handler(w, r)

	res := w.Result()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
	if sessionCookie(res) != nil {
		t.Error("cookie was set on a failed callback")
	}
}

func TestCallbackHidesProviderError(t *testing.T) {
	completer := &fakeCompleter{
		err: apperr.Wrap(apperr.KindUnauthorized, "sign-in failed",
			apperr.HTTP(400, "invalid_grant: token endpoint said no", nil)),
	}

	handler := New(discardLogger(), completer, testEngine(t), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc&state=S1", nil)
	handler(w, r)

	body := w.Body.String()
	if body == "" {
		t.Fatal("empty error page")
	}
	for _, leak := range []string{"invalid_grant", "token endpoint"} {
		if strings.Contains(body, leak) {
			t.Errorf("provider error %q leaked into the page", leak)
		}
	}
}

func TestCallbackMissingParamsIsBadRequest(t *testing.T) {
	completer := &fakeCompleter{}

	handler := New(discardLogger(), completer, testEngine(t), false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/oauth/callback?code=abc", nil)
	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if completer.calls != 0 {
		t.Error("CompleteLogin was called without a state")
	}
}
