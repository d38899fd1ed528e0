// Package cli implements the cobra commands of the skillbridge-admin binary.
//
// Every command loads the environment configuration, opens the store named
// by DATABASE_URL and closes it again before returning, whatever the outcome.
package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/config"
	"github.com/skillbridge/server/internal/service"
	"github.com/skillbridge/server/internal/storage"
	"github.com/spf13/cobra"
	"github.com/timshannon/bolthold"
)

var (
	// envFiles are loaded before the configuration is read.
	envFiles []string

	verbose bool
)

// Version is set at build time via ldflags.
var Version = "dev"

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "skillbridge-admin",
		Short:         "Administrative tasks for the Skill Bridge server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetOutput(cmd.ErrOrStderr())
			if verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
			return config.LoadDotEnv(envFiles...)
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "Environment files to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewVerifyCommand())
	rootCmd.AddCommand(NewSeedCommand())

	return rootCmd
}

// Execute runs rootCmd and exits with status 1 on failure.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type openFunc func(databaseURL string) (*bolthold.Store, error)

// withAdminService opens the store with open for the duration of fn.
func withAdminService(open openFunc, fn func(*config.Config, *service.AdminService) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing store: %w", closeErr)
		}
		log.WithField("component", "database").Debug("store closed")
	}()

	svc := service.NewAdminService(
		storage.NewUserRepository(store),
		storage.NewAccountRepository(store),
		storage.NewSessionRepository(store),
	)
	return fn(cfg, svc)
}
