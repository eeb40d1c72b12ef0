package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	adapthttp "notekeep/internal/adapter/http"
	"notekeep/internal/adapter/postgres"
	"notekeep/internal/adapter/sqlite"
	"notekeep/internal/app"
	"notekeep/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

func main() {
	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")

	var (
		users    domain.UserRepository
		sessions domain.SessionRepository
		entries  domain.EntryRepository
	)

	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		users = db
		sessions = postgres.NewSessionRepo(db)
		entries = postgres.NewEntryRepo(db)
	} else {
		db, err := sqlite.Open(env("DB_PATH", "notekeep.db"))
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		users = db
		sessions = sqlite.NewSessionRepo(db)
		entries = sqlite.NewEntryRepo(db)
	}

	if err := sessions.DeleteExpired(context.Background()); err != nil {
		log.Printf("session cleanup: %v", err)
	}

	authSvc := app.NewAuthService(users, sessions)
	entrySvc := app.NewEntryService(entries)

	oidcConfig, err := setupOIDC(context.Background())
	if err != nil {
		log.Fatalf("oidc setup: %v", err)
	}

	srv, err := adapthttp.New(authSvc, entrySvc, webDir, oidcConfig)
	if err != nil {
		log.Fatalf("server setup: %v", err)
	}

	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// setupOIDC builds the SSO configuration from the environment. SSO stays
// disabled unless OIDC_ISSUER_URL is set.
func setupOIDC(ctx context.Context) (adapthttp.OIDCConfig, error) {
	issuer := os.Getenv("OIDC_ISSUER_URL")
	if issuer == "" {
		return adapthttp.OIDCConfig{}, nil
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  env("OIDC_REDIRECT_URL", "http://localhost:8080/auth/sso/callback"),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
