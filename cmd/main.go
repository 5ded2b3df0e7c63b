package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinopark/internal/app"
	"dinopark/internal/auth"
	"dinopark/internal/config"
	"dinopark/internal/http_server/handlers/callback"
	"dinopark/internal/http_server/handlers/dinosaurs"
	"dinopark/internal/http_server/handlers/index"
	"dinopark/internal/http_server/handlers/login"
	"dinopark/internal/http_server/handlers/logout"
	rateLimit "dinopark/internal/middleware/ratelimit"
	"dinopark/internal/middleware/sessionauth"
	"dinopark/internal/oauth"
	"dinopark/internal/session"
	"dinopark/internal/storage/postgres"
	"dinopark/internal/templates"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := setupLogger(cfg.Env)

	log.Info("starting dinopark", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	tmpl, err := templates.Parse(cfg.TemplatesDir)
	if err != nil {
		log.Error("failed to parse templates", slog.String("err", err.Error()))
		os.Exit(1)
	}

	oauthClient, err := oauth.NewClient(
		cfg.OAuthGoogleClientID,
		cfg.OAuthGoogleClientSecret,
		oauth.GoogleAuthURL,
		oauth.GoogleTokenURL,
		cfg.OAuthGoogleRedirectURL,
	)
	if err != nil {
		log.Error("failed to build oauth client", slog.String("err", err.Error()))
		os.Exit(1)
	}

	sessions, err := setupSessions(ctx, cfg)
	if err != nil {
		log.Error("failed to connect session store", slog.String("err", err.Error()))
		os.Exit(1)
	}

	state := &app.State{
		Storage:   storage,
		Templates: tmpl,
		OAuth:     oauthClient,
	}

	flow := auth.New(log, state.OAuth, state.Storage, sessions)

	router := setupRouter(log, cfg, state, flow)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupSessions(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(), nil
	}

	return session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
}

func setupRouter(
	log *slog.Logger,
	cfg *config.Config,
	state *app.State,
	flow *auth.Flow,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(sessionauth.Extract(flow))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "healthy"})
	})

	r.Get("/", index.New(log, state.Templates, state.Storage))

	r.With(rateLimit.Login()).Get("/login",
		login.New(log, flow),
	)
	r.With(rateLimit.Callback()).Get("/oauth/callback",
		callback.New(log, flow, state.Templates, cfg.CookieSecure),
	)
	r.With(rateLimit.Logout()).Get("/logout",
		logout.New(log, flow, cfg.CookieSecure),
	)

	r.Get("/dinosaurs",
		dinosaurs.List(log, state.Storage),
	)
	r.Get("/dinosaurs/{id}",
		dinosaurs.Get(log, state.Storage),
	)

	r.Group(func(pr chi.Router) {
		pr.Use(sessionauth.Require())

		pr.Post("/dinosaurs",
			dinosaurs.Create(log, validate, state.Storage),
		)
		pr.Put("/dinosaurs/{id}",
			dinosaurs.Update(log, validate, state.Storage),
		)
		pr.Delete("/dinosaurs/{id}",
			dinosaurs.Delete(log, state.Storage),
		)
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
