package sessionauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dinopark/internal/models"
	"dinopark/internal/session"
)

type fakeProvider struct {
	sessions map[string]models.Session
}

func (f *fakeProvider) SessionByID(_ context.Context, sid string) (models.Session, error) {
	sess, ok := f.sessions[sid]
	if !ok || sess.IsExpired() {
		return models.Session{}, session.ErrNotFound
	}

	return sess, nil
}

func echoSubject() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := FromContext(r.Context()); ok {
			_, _ = w.Write([]byte(sess.Subject))
			return
		}

		_, _ = w.Write([]byte("anonymous"))
	})
}

func TestExtractResolvesValidSession(t *testing.T) {
	provider := &fakeProvider{sessions: map[string]models.Session{
		"sid-1": {ID: "sid-1", Subject: "42", ExpiresAt: time.Now().Add(time.Hour)},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "sid-1"})

	Extract(provider)(echoSubject()).ServeHTTP(w, r)

	if got := w.Body.String(); got != "42" {
		t.Errorf("body = %q, want 42", got)
	}
}

func TestExtractWithoutCookieIsAnonymous(t *testing.T) {
	provider := &fakeProvider{sessions: map[string]models.Session{}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	Extract(provider)(echoSubject()).ServeHTTP(w, r)

	if got := w.Body.String(); got != "anonymous" {
		t.Errorf("body = %q, want anonymous", got)
	}
}

func TestExtractExpiredSessionIsAnonymous(t *testing.T) {
	provider := &fakeProvider{sessions: map[string]models.Session{
		"sid-old": {ID: "sid-old", Subject: "42", ExpiresAt: time.Now().Add(-time.Minute)},
	}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "sid-old"})

	Extract(provider)(echoSubject()).ServeHTTP(w, r)

	if got := w.Body.String(); got != "anonymous" {
		t.Errorf("body = %q, want anonymous", got)
	}
}

func TestRequireRejectsAnonymous(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/dinosaurs", nil)

	called := false
	Require()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if called {
		t.Error("next handler ran for an anonymous request")
	}
}

func TestSetCookieAttributes(t *testing.T) {
	w := httptest.NewRecorder()

	SetCookie(w, "sid-1", 24*time.Hour, false)

	res := w.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}

	c := cookies[0]
	if c.Name != CookieName || c.Value != "sid-1" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if c.Path != "/" {
		t.Errorf("path = %q, want /", c.Path)
	}
	if c.MaxAge != 86400 {
		t.Errorf("max-age = %d, want 86400", c.MaxAge)
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("samesite = %v, want Lax", c.SameSite)
	}
}

func TestClearCookieExpiresImmediately(t *testing.T) {
	w := httptest.NewRecorder()

	ClearCookie(w, false)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}

	c := cookies[0]
	if c.Value != "" {
		t.Errorf("cleared cookie still has value %q", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("max-age = %d, want immediate expiry", c.MaxAge)
	}
}
