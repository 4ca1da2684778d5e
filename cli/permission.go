package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eulark/eulark-site/repositories"
)

func newPermissionCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permission",
		Short: "Grant or revoke a player's special permission",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "grant PLAYER_ID",
		Short: "Grant the special permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}
			if err := app().Permissions.Grant(cmd.Context(), id); err != nil {
				if errors.Is(err, repositories.ErrPlayerNotFound) {
					return fmt.Errorf("player %d does not exist", id)
				}
				return err
			}
			cmd.Printf("granted special permission to player %d\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke PLAYER_ID",
		Short: "Revoke the special permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}
			if err := app().Permissions.Revoke(cmd.Context(), id); err != nil {
				if errors.Is(err, repositories.ErrRecordNotFound) {
					return fmt.Errorf("player %d has no special permission", id)
				}
				return err
			}
			cmd.Printf("revoked special permission of player %d\n", id)
			return nil
		},
	})

	return cmd
}

func parsePlayerID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player id %q", raw)
	}
	return id, nil
}
