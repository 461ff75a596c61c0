package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/vestibule"
	fiberadapter "github.com/lborres/vestibule/adapters/fiber"
	pgxadapter "github.com/lborres/vestibule/adapters/pgx"
	"github.com/lborres/vestibule/config"
	"github.com/lborres/vestibule/pkg/mail"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()

	if err := pgxadapter.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	mailer, err := mail.NewSender(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		log.Fatalf("mail.NewSender: %v", err)
	}

	app := fiber.New()
	app.Use(logger.New())

	vconfig := vestibule.Config{
		Secret:        cfg.SessionSecret,
		Database:      pgxadapter.New(pool),
		Mailer:        mailer,
		HTTP:          fiberadapter.New(app),
		BaseURL:       cfg.BaseURL,
		BasePath:      cfg.BasePath,
		SessionConfig: &vestibule.SessionConfig{MaxAge: cfg.SessionMaxAge},
	}

	if cfg.OAuthEnabled() {
		vconfig.OAuth = &vestibule.OAuthConfig{
			ProviderID:   cfg.OAuthProviderID,
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			AuthURL:      cfg.OAuthAuthURL,
			TokenURL:     cfg.OAuthTokenURL,
			UserInfoURL:  cfg.OAuthUserInfoURL,
			Scopes:       cfg.OAuthScopes,
		}
	}

	if _, err := vestibule.New(vconfig); err != nil {
		log.Fatalf("vestibule.New: %v", err)
	}

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("app.Listen: %v", err)
	}
}
