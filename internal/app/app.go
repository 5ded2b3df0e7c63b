package app

import (
	"dinopark/internal/oauth"
	"dinopark/internal/storage/postgres"
	"dinopark/internal/templates"
)

// State bundles the shared handles every request handler needs. It is
// built once at startup and never mutated afterwards.
type State struct {
	Storage   *postgres.PostgresRepo
	Templates *templates.Engine
	OAuth     *oauth.Client
}
