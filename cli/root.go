// Package cli implements eularkctl, the operator tool for tasks the HTTP API
// deliberately does not expose: schema migrations, admin accounts and
// special permissions.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eulark/eulark-site/db"
	"github.com/eulark/eulark-site/repositories"
	"github.com/eulark/eulark-site/utils"
)

// App is everything a subcommand may touch.
type App struct {
	Admins      repositories.AdminRepository
	Permissions repositories.PermissionRepository
	Hasher      *utils.PasswordHasher
	Migrate     func(direction string) error
	Version     func() (version uint, dirty bool, err error)
	Close       func() error
}

type Options struct {
	DatabaseURL string
	BcryptCost  int
}

// Opener builds an App once flags are parsed.
type Opener func(ctx context.Context, opts Options) (*App, error)

// OpenPostgres connects to the database named by opts.DatabaseURL.
func OpenPostgres(ctx context.Context, opts Options) (*App, error) {
	if opts.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (--database-url or DATABASE_URL)")
	}
	conn, err := db.Connect(opts.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &App{
		Admins:      repositories.NewPostgresAdminRepository(conn),
		Permissions: repositories.NewPostgresPermissionRepository(conn),
		Hasher:      utils.NewPasswordHasher(opts.BcryptCost),
		Migrate:     func(direction string) error { return db.RunMigrations(conn, direction) },
		Version:     func() (uint, bool, error) { return db.MigrationVersion(conn) },
		Close:       conn.Close,
	}, nil
}

// NewRootCmd creates the root command.
func NewRootCmd(open Opener) *cobra.Command {
	opts := Options{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BcryptCost:  10,
	}
	var app *App

	rootCmd := &cobra.Command{
		Use:   "eularkctl",
		Short: "Operator tool for the Eulark site backend",
		Long: `eularkctl manages the parts of the Eulark backend that have no HTTP surface:
database migrations, admin accounts and special player permissions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = open(cmd.Context(), opts)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app != nil && app.Close != nil {
				return app.Close()
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", opts.DatabaseURL, "Postgres DSN (env: DATABASE_URL)")
	rootCmd.PersistentFlags().IntVar(&opts.BcryptCost, "bcrypt-cost", opts.BcryptCost, "bcrypt cost for new passwords")

	appFn := func() *App { return app }
	rootCmd.AddCommand(newMigrateCmd(appFn))
	rootCmd.AddCommand(newCreateAdminCmd(appFn))
	rootCmd.AddCommand(newPermissionCmd(appFn))

	return rootCmd
}

// Execute runs the root command against Postgres.
func Execute() {
	_ = godotenv.Load()
	if err := NewRootCmd(OpenPostgres).Execute(); err != nil {
		os.Exit(1)
	}
}
