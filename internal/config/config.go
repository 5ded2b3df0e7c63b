package config

import (
	"time"

	"dinopark/internal/apperr"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env                     string        `env:"ENV" env-default:"local"`
	DatabaseURL             string        `env:"DATABASE_URL"`
	Port                    string        `env:"PORT"`
	OAuthGoogleClientID     string        `env:"OAUTH_GOOGLE_CLIENT_ID"`
	OAuthGoogleClientSecret string        `env:"OAUTH_GOOGLE_CLIENT_SECRET"`
	OAuthGoogleRedirectURL  string        `env:"OAUTH_GOOGLE_REDIRECT_URL"`
	RedisAddr               string        `env:"REDIS_ADDR"`
	RedisPassword           string        `env:"REDIS_PASSWORD"`
	TemplatesDir            string        `env:"TEMPLATES_DIR" env-default:"./templates"`
	CookieSecure            bool          `env:"COOKIE_SECURE" env-default:"false"`
	HTTPTimeout             time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	HTTPIdleTimeout         time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Load merges an optional .env file into the environment, reads the
// configuration and rejects it if any required variable is missing or empty.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindEnvVar, "failed to read environment", err)
	}

	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"PORT", cfg.Port},
		{"OAUTH_GOOGLE_CLIENT_ID", cfg.OAuthGoogleClientID},
		{"OAUTH_GOOGLE_CLIENT_SECRET", cfg.OAuthGoogleClientSecret},
		{"OAUTH_GOOGLE_REDIRECT_URL", cfg.OAuthGoogleRedirectURL},
	}

	for _, v := range required {
		if v.value == "" {
			return nil, apperr.EnvVar(v.name)
		}
	}

	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	port := c.Port
	if port == "" {
		port = "8080"
	}

	return "0.0.0.0:" + port
}
