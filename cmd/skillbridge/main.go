package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/app"
	"github.com/skillbridge/server/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.WithError(err).Fatal("failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	app.ConfigureLogging(cfg)

	application, err := app.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}

	if err := application.Run(context.Background()); err != nil {
		log.WithError(err).Fatal("application error")
	}
}
