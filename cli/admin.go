package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
)

func newCreateAdminCmd(app func() *App) *cobra.Command {
	var username string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an admin account",
		Long: `Creates an admin user. The password is read from the first line of stdin
so it never shows up in shell history:

  echo "$ADMIN_PASSWORD" | eularkctl create-admin --username root --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username = strings.TrimSpace(username)
			if username == "" {
				return errors.New("--username is required")
			}
			if err := models.CheckLength("--username", username, models.MaxAdminUsernameLength); err != nil {
				return err
			}
			if !passwordStdin {
				return errors.New("--password-stdin is required")
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password from stdin: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if len(password) < 8 || len(password) > models.MaxPasswordBytes {
				return fmt.Errorf("admin password must be 8 to %d bytes", models.MaxPasswordBytes)
			}

			a := app()
			hash, err := a.Hasher.Hash(password)
			if err != nil {
				return err
			}
			admin := &models.AdminUser{Username: username, PasswordHash: hash}
			if err := a.Admins.Create(cmd.Context(), admin); err != nil {
				if errors.Is(err, repositories.ErrAdminUsernameConflict) {
					return fmt.Errorf("admin %q already exists", username)
				}
				return err
			}
			cmd.Printf("created admin %q (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Admin username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}
