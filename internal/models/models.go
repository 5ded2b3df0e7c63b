package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Subject   string
	CreatedAt time.Time
	LastLogin time.Time
}

type Dinosaur struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Weight int       `json:"weight"`
	Diet   string    `json:"diet"`
	UserID *string   `json:"user_id,omitempty"`
}

// * OwnedBy проверяет, принадлежит ли запись данному пользователю
func (d *Dinosaur) OwnedBy(subject string) bool {
	return d.UserID != nil && *d.UserID == subject
}

type Session struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// * IsExpired проверяет, истек ли срок действия сессии
func (s *Session) IsExpired() bool {
	return s.ExpiresAt.Before(time.Now())
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}
