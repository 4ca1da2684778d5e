package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

var ErrPasswordResetNotFound = errors.New("password reset request not found")

type PasswordResetRepository interface {
	Upsert(ctx context.Context, reset *models.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	Delete(ctx context.Context, exec SQLExecutor, email string) error
}

type postgresPasswordResetRepository struct {
	db *sql.DB
}

func NewPostgresPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &postgresPasswordResetRepository{db: db}
}

func (r *postgresPasswordResetRepository) Upsert(ctx context.Context, reset *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (email, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`

	_, err := r.db.ExecContext(ctx, query, reset.Email, reset.Token, reset.ExpiresAt)
	return err
}

func (r *postgresPasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	query := `SELECT email, token, expires_at FROM password_resets WHERE token = $1`

	var reset models.PasswordReset
	err := r.db.QueryRowContext(ctx, query, token).Scan(&reset.Email, &reset.Token, &reset.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPasswordResetNotFound
		}
		return nil, err
	}
	return &reset, nil
}

func (r *postgresPasswordResetRepository) Delete(ctx context.Context, exec SQLExecutor, email string) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM password_resets WHERE email = $1`, email)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPasswordResetNotFound)
}
