package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

var (
	ErrAdminNotFound         = errors.New("admin user not found")
	ErrAdminUsernameConflict = errors.New("admin username conflict")
)

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := `SELECT id, username, password_hash FROM users WHERE username = $1`

	var a models.AdminUser
	err := r.db.QueryRowContext(ctx, query, username).Scan(&a.ID, &a.Username, &a.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create is only used by the provisioning CLI.
func (r *postgresAdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, admin.Username, admin.PasswordHash).Scan(&admin.ID)
	if err != nil {
		if code, _ := pqCode(err); code == pqUniqueViolation {
			return ErrAdminUsernameConflict
		}
		return err
	}
	return nil
}
