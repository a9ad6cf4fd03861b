package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"medication-reminder/internal/adapters/ai/gemini"
	"medication-reminder/internal/adapters/auth/remote"
	"medication-reminder/internal/adapters/notify/fcm"
	"medication-reminder/internal/adapters/notify/logonly"
	"medication-reminder/internal/adapters/notify/mailer"
	pg "medication-reminder/internal/adapters/storage/postgres"
	"medication-reminder/internal/config"
	"medication-reminder/internal/domain/devices"
	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/ports/ai"
	"medication-reminder/internal/ports/auth"
	"medication-reminder/internal/ports/notify"
	"medication-reminder/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		db, err = pg.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Error("postgres connection failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	var verifier auth.AuthVerifier
	if cfg.AuthBaseURL != "" {
		verifier = remote.NewVerifier(remote.NewClient(remote.Config{
			BaseURL: cfg.AuthBaseURL,
			APIKey:  cfg.AuthAPIKey,
		}))
	} else {
		log.Warn("AUTH_BASE_URL not set, running in dev auth mode (X-Debug-User-ID)", nil)
	}

	var alerts notify.AlertSender
	if svc, err := mailer.NewService(mailer.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromName:  cfg.SMTPFromName,
		FromEmail: cfg.SMTPFromEmail,
	}); err == nil {
		alerts = svc
	} else {
		log.Warn("smtp not configured, escalation emails go to the log", nil)
		alerts = logonly.NewAlertSender(log)
	}

	var assistant ai.Assistant
	if client, err := gemini.NewClient(gemini.Config{
		APIKey: cfg.GoogleAPIKey,
		Model:  cfg.GeminiModel,
	}); err == nil {
		assistant = client
	} else {
		log.Warn("gemini not configured, assistant endpoint disabled", nil)
	}

	platformFor := func(tokens *devices.Service) notify.PlatformNotifier {
		if cfg.FirebaseCredentialsPath == "" {
			log.Warn("firebase not configured, push notifications go to the log", nil)
			return logonly.NewPlatformNotifier(log)
		}
		n, err := fcm.NewNotifier(context.Background(), cfg.FirebaseCredentialsPath, tokens, log)
		if err != nil {
			log.Error("firebase init failed, push notifications go to the log", map[string]any{
				"error": err.Error(),
			})
			return logonly.NewPlatformNotifier(log)
		}
		return n
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Log:          log,
		Alerts:       alerts,
		Assistant:    assistant,
		PlatformFor:  platformFor,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Environment})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
