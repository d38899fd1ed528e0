package app

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/config"
)

// ConfigureLogging sets the global logrus output, level and format for cfg.
func ConfigureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
