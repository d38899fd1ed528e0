package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/skillbridge/server/internal/config"
	"github.com/skillbridge/server/internal/service"
	"github.com/skillbridge/server/internal/storage"
	"github.com/spf13/cobra"
)

func NewVerifyCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Print the admin user and its related records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdminService(storage.OpenExisting, func(cfg *config.Config, svc *service.AdminService) error {
				if email == "" {
					email = cfg.AdminEmail
				}
				report, err := svc.Verify(cmd.Context(), email)
				if err != nil {
					return err
				}
				return WriteReport(cmd.OutOrStdout(), report)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the user to verify (default ADMIN_EMAIL)")
	return cmd
}

// WriteReport prints report as aligned key/value lines.
func WriteReport(w io.Writer, report *service.AdminReport) error {
	u := report.User
	rows := [][2]string{
		{"ID", u.ID},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Role", string(u.Role)},
		{"Status", string(u.Status)},
		{"Email verified", yesNo(u.EmailVerified)},
		{"Created", u.CreatedAt.UTC().Format(time.RFC3339)},
		{"Accounts", fmt.Sprint(report.Accounts)},
		{"Sessions", fmt.Sprint(report.Sessions)},
	}

	var b strings.Builder
	b.WriteString("Admin user found\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-15s %s\n", row[0]+":", row[1])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
