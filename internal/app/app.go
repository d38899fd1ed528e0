package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/auth"
	"github.com/skillbridge/server/internal/config"
	"github.com/skillbridge/server/internal/handler"
	"github.com/skillbridge/server/internal/metrics"
	"github.com/skillbridge/server/internal/service"
	"github.com/skillbridge/server/internal/storage"
	"github.com/timshannon/bolthold"
)

const (
	shutdownTimeout = 30 * time.Second
)

type App struct {
	cfg    *config.Config
	store  *bolthold.Store
	server *fiber.App
}

func New(cfg *config.Config) (*App, error) {
	store, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	app := &App{cfg: cfg, store: store}
	app.wireServices()
	return app, nil
}

func (a *App) wireServices() {
	users := storage.NewUserRepository(a.store)
	accounts := storage.NewAccountRepository(a.store)
	sessions := storage.NewSessionRepository(a.store)

	tokens := auth.NewTokenManager(a.cfg.AuthSecret, a.cfg.AuthURL, a.cfg.SessionTTL)
	authSvc := service.NewAuthService(users, accounts, sessions, tokens)

	a.server = handler.NewRouter(a.cfg, handler.NewHTTPHandler(authSvc), metrics.New())
}

// Server exposes the fiber application, mainly for tests.
func (a *App) Server() *fiber.App {
	return a.server
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logIntegrations()

	errCh := make(chan error, 1)
	go a.startServer(errCh)

	return a.waitForShutdown(ctx, errCh)
}

func (a *App) logIntegrations() {
	log.WithFields(log.Fields{
		"component":   "app",
		"env":         a.cfg.Env,
		"googleOAuth": a.cfg.GoogleOAuthEnabled(),
		"mailer":      a.cfg.MailerEnabled(),
	}).Info("configuration loaded")
}

func (a *App) startServer(errCh chan<- error) {
	log.WithFields(log.Fields{
		"component": "server",
		"address":   a.cfg.Addr(),
	}).Info("http server listening")

	if err := a.server.Listen(a.cfg.Addr()); err != nil {
		errCh <- fmt.Errorf("http server: %w", err)
	}
}

func (a *App) waitForShutdown(ctx context.Context, errCh <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case <-ctx.Done():
		log.WithField("reason", "context_cancelled").Info("initiating graceful shutdown")
	case sig := <-sigChan:
		log.WithField("signal", sig).Info("received shutdown signal")
	case runErr = <-errCh:
		log.WithFields(log.Fields{
			"component": "server",
			"error":     runErr,
		}).Error("http server failed")
	}

	if err := a.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) shutdown() error {
	log.Info("graceful shutdown started")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithFields(log.Fields{
			"component": "server",
			"error":     err,
		}).Error("http server shutdown failed")
	}

	if err := a.store.Close(); err != nil {
		log.WithFields(log.Fields{
			"component": "database",
			"error":     err,
		}).Error("database connection close failed")
		return err
	}

	log.Info("graceful shutdown completed")
	return nil
}
