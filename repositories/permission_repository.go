package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// PermissionRepository reads and provisions special permissions. Grant and
// Revoke are only used by the admin CLI.
type PermissionRepository interface {
	HasSpecialPermission(ctx context.Context, playerID int) (bool, error)
	Grant(ctx context.Context, playerID int) error
	Revoke(ctx context.Context, playerID int) error
}

type postgresPermissionRepository struct {
	db *sql.DB
}

func NewPostgresPermissionRepository(db *sql.DB) PermissionRepository {
	return &postgresPermissionRepository{db: db}
}

func (r *postgresPermissionRepository) HasSpecialPermission(ctx context.Context, playerID int) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM special_permissions WHERE player_id = $1)`, playerID).Scan(&ok)
	return ok, err
}

// Grant is idempotent. An unknown player yields ErrPlayerNotFound.
func (r *postgresPermissionRepository) Grant(ctx context.Context, playerID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO special_permissions (player_id) VALUES ($1) ON CONFLICT (player_id) DO NOTHING`, playerID)
	if err != nil {
		if code, _ := pqCode(err); code == pqForeignKeyViolation {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to grant permission to player %d: %w", playerID, err)
	}
	return nil
}

func (r *postgresPermissionRepository) Revoke(ctx context.Context, playerID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM special_permissions WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to revoke permission of player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}
