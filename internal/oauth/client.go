package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dinopark/internal/apperr"
	"dinopark/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Google endpoints. The token endpoint is the documented
// oauth2.googleapis.com host.
const (
	GoogleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	GoogleTokenURL    = "https://oauth2.googleapis.com/token"
	GoogleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

const exchangeTimeout = 10 * time.Second

// Client is an immutable OAuth 2.0 authorization-code client.
type Client struct {
	conf *oauth2.Config

	// UserinfoURL is queried when the token response carries no id_token.
	UserinfoURL string

	httpClient *http.Client
}

func NewClient(clientID, clientSecret, authURL, tokenURL, redirectURL string) (*Client, error) {
	for _, u := range []struct {
		name  string
		value string
	}{
		{"auth url", authURL},
		{"token url", tokenURL},
		{"redirect url", redirectURL},
	} {
		parsed, err := url.Parse(u.value)
		if err != nil {
			return nil, apperr.Parse(fmt.Sprintf("invalid %s", u.name), err)
		}
		if !parsed.IsAbs() {
			return nil, apperr.Parse(fmt.Sprintf("invalid %s: not absolute", u.name), nil)
		}
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &Client{
		conf:        conf,
		UserinfoURL: GoogleUserinfoURL,
		httpClient:  &http.Client{Timeout: exchangeTimeout},
	}, nil
}

// AuthorizeURL builds the provider authorization URL for one login attempt.
// A non-empty verifier adds the S256 PKCE challenge.
func (c *Client) AuthorizeURL(state, verifier string, scopes ...string) string {
	conf := *c.conf
	conf.Scopes = scopes

	var opts []oauth2.AuthCodeOption
	if verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(verifier))
	}

	return conf.AuthCodeURL(state, opts...)
}

// ExchangeCode swaps the authorization code for tokens at the token
// endpoint. The call is bounded by a 10 second timeout.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (models.TokenResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	var opts []oauth2.AuthCodeOption
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	tok, err := c.conf.Exchange(ctx, code, opts...)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return models.TokenResponse{}, apperr.HTTP(
				retrieveErr.Response.StatusCode,
				"token endpoint rejected the exchange",
				err,
			)
		}

		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return models.TokenResponse{}, apperr.HTTP(
				http.StatusBadGateway,
				"token endpoint unreachable",
				err,
			)
		}

		return models.TokenResponse{}, apperr.Serialization("malformed token response", err)
	}

	resp := models.TokenResponse{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
		RefreshToken: tok.RefreshToken,
	}

	if idToken, ok := tok.Extra("id_token").(string); ok {
		resp.IDToken = idToken
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		resp.Scope = scope
	}

	return resp, nil
}

// Subject derives the provider-assigned user identifier from the token
// response: from the id_token claims when present, otherwise via an
// authenticated userinfo request.
func (c *Client) Subject(ctx context.Context, tok models.TokenResponse) (string, error) {
	if tok.IDToken != "" {
		return subjectFromIDToken(tok.IDToken)
	}

	return c.subjectFromUserinfo(ctx, tok.AccessToken)
}

// The exchange happens server-side over TLS directly with the provider,
// so the id_token signature is not re-verified here.
func subjectFromIDToken(idToken string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return "", apperr.Serialization("failed to decode id_token", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.Unauthorized("id_token carries no subject")
	}

	return sub, nil
}

func (c *Client) subjectFromUserinfo(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.UserinfoURL, nil)
	if err != nil {
		return "", apperr.HTTP(http.StatusInternalServerError, "failed to build userinfo request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.HTTP(http.StatusBadGateway, "userinfo endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.HTTP(resp.StatusCode, "userinfo endpoint rejected the token", nil)
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", apperr.Serialization("malformed userinfo response", err)
	}

	if info.Sub == "" {
		return "", apperr.Unauthorized("userinfo carries no subject")
	}

	return info.Sub, nil
}
