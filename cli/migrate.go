package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}

	for _, direction := range []string{"up", "down"} {
		direction := direction
		cmd.AddCommand(&cobra.Command{
			Use:   direction,
			Short: fmt.Sprintf("Run every %s migration", direction),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app().Migrate(direction); err != nil {
					return err
				}
				cmd.Printf("migrations %s: done\n", direction)
				return nil
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, err := app().Version()
			if err != nil {
				return err
			}
			if dirty {
				cmd.Printf("schema version %d (dirty)\n", version)
				return nil
			}
			cmd.Printf("schema version %d\n", version)
			return nil
		},
	})

	return cmd
}
