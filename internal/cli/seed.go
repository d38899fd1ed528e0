package cli

import (
	"fmt"

	"github.com/skillbridge/server/internal/config"
	"github.com/skillbridge/server/internal/service"
	"github.com/skillbridge/server/internal/storage"
	"github.com/spf13/cobra"
)

func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the admin user from ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_NAME",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(storage.Open, func(cfg *config.Config, svc *service.AdminService) error {
				if err := cfg.ValidateAdmin(); err != nil {
					return err
				}
				user, created, err := svc.Seed(cmd.Context(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Admin user created: %s (%s)\n", user.Email, user.ID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Admin user already exists: %s (%s)\n", user.Email, user.ID)
				}
				return nil
			})
		},
	}
}
