package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dinopark/internal/apperr"
	sl "dinopark/internal/lib/logger"
	"dinopark/internal/models"
	"dinopark/internal/session"
)

const sessionTTL = 24 * time.Hour

var defaultScopes = []string{"openid", "email", "profile"}

type OAuthClient interface {
	AuthorizeURL(state, verifier string, scopes ...string) string
	ExchangeCode(ctx context.Context, code, verifier string) (models.TokenResponse, error)
	Subject(ctx context.Context, tok models.TokenResponse) (string, error)
}

type UserSaver interface {
	UpsertUser(ctx context.Context, subject string) error
}

// Flow drives the authorization-code login lifecycle: initiation,
// callback exchange, session issuance and revocation.
type Flow struct {
	log      *slog.Logger
	oauth    OAuthClient
	users    UserSaver
	pending  *PendingStore
	sessions session.Store
}

func New(
	log *slog.Logger,
	oauthClient OAuthClient,
	users UserSaver,
	sessions session.Store,
) *Flow {
	return &Flow{
		log:      log,
		oauth:    oauthClient,
		users:    users,
		pending:  NewPendingStore(),
		sessions: sessions,
	}
}

// BeginLogin registers a fresh pending authorization and returns the
// provider URL the browser is redirected to.
func (f *Flow) BeginLogin(_ context.Context) (string, error) {
	const op = "auth.Flow.BeginLogin"

	state, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate state: %w", op, err)
	}

	verifier, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate verifier: %w", op, err)
	}

	f.pending.Put(state, verifier)

	return f.oauth.AuthorizeURL(state, verifier, defaultScopes...), nil
}

// CompleteLogin consumes the pending authorization, exchanges the code
// and mints a session for the authenticated subject.
func (f *Flow) CompleteLogin(ctx context.Context, state, code string) (models.Session, error) {
	const op = "auth.Flow.CompleteLogin"

	log := f.log.With(slog.String("op", op))

	verifier, ok := f.pending.Take(state)
	if !ok {
		log.Warn("callback with unknown or expired state")
		return models.Session{}, apperr.Unauthorized("state mismatch")
	}

	tok, err := f.oauth.ExchangeCode(ctx, code, verifier)
	if err != nil {
		log.Error("token exchange failed", sl.Err(err))
		return models.Session{}, apperr.Wrap(apperr.KindUnauthorized, "sign-in failed", err)
	}

	subject, err := f.oauth.Subject(ctx, tok)
	if err != nil {
		log.Error("failed to derive subject", sl.Err(err))
		return models.Session{}, apperr.Wrap(apperr.KindUnauthorized, "sign-in failed", err)
	}

	if err := f.users.UpsertUser(ctx, subject); err != nil {
		log.Error("failed to upsert user", sl.Err(err))
		return models.Session{}, apperr.Database("failed to save user", err)
	}

	sid, err := randomToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("%s: failed to generate session id: %w", op, err)
	}

	now := time.Now()
	sess := models.Session{
		ID:        sid,
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(sessionTTL),
	}

	if err := f.sessions.Save(ctx, sess); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("subject", subject))

	return sess, nil
}

// SessionByID resolves a session cookie value. Expired or unknown
// sessions yield session.ErrNotFound.
func (f *Flow) SessionByID(ctx context.Context, sid string) (models.Session, error) {
	return f.sessions.Get(ctx, sid)
}

// Logout revokes the session. Revoking an absent session is not an error.
func (f *Flow) Logout(ctx context.Context, sid string) error {
	const op = "auth.Flow.Logout"

	if err := f.sessions.Delete(ctx, sid); err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SessionTTL is the fixed session lifetime, also used for cookie Max-Age.
func SessionTTL() time.Duration {
	return sessionTTL
}

// randomToken returns 256 bits of URL-safe entropy.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
