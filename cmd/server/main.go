// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/muniplay/internal/api/auth"
	"github.com/codr1/muniplay/internal/api/blocks"
	"github.com/codr1/muniplay/internal/api/installations"
	"github.com/codr1/muniplay/internal/api/reservations"
	"github.com/codr1/muniplay/internal/booking"
	"github.com/codr1/muniplay/internal/config"
	"github.com/codr1/muniplay/internal/db"
	"github.com/codr1/muniplay/internal/email"
	"github.com/codr1/muniplay/internal/scheduler"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	service := booking.NewService(database, nil)

	var mailer email.Sender
	if cfg.Email.Enabled {
		client, err := email.NewSESClient(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			cfg.Email.Region,
			cfg.Email.Sender,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create email client")
		}
		mailer = client
		log.Info().Str("sender", cfg.Email.Sender).Msg("Email notifications enabled")
	}

	auth.InitHandlers(database, auth.Config{
		Secret:     []byte(cfg.App.SecretKey),
		TokenTTL:   cfg.Auth.TokenTTL,
		TrustProxy: cfg.Auth.TrustProxy,
	})
	reservations.InitHandlers(service, mailer)
	blocks.InitHandlers(service)
	installations.InitHandlers(service)

	if cfg.Reminders.Enabled {
		if mailer == nil {
			log.Warn().Msg("Reminders enabled without email; skipping reminder job")
		} else {
			sched, err := scheduler.New()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create scheduler")
			}
			if err := scheduler.RegisterReminderJob(sched, database, mailer, cfg.Reminders.Lead); err != nil {
				log.Fatal().Err(err).Msg("Failed to register reminder job")
			}
			sched.Start()
			defer sched.Stop()
		}
	}

	server := newServer(cfg)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
