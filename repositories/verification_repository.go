package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

var ErrVerificationNotFound = errors.New("pending verification not found")

type VerificationRepository interface {
	// Upsert replaces any pending row for the same email.
	Upsert(ctx context.Context, v *models.PendingVerification) error
	GetByEmail(ctx context.Context, email string) (*models.PendingVerification, error)
	Delete(ctx context.Context, exec SQLExecutor, email string) error
}

type postgresVerificationRepository struct {
	db *sql.DB
}

func NewPostgresVerificationRepository(db *sql.DB) VerificationRepository {
	return &postgresVerificationRepository{db: db}
}

func (r *postgresVerificationRepository) Upsert(ctx context.Context, v *models.PendingVerification) error {
	query := `
		INSERT INTO pending_verifications (email, player_name, password_hash, verification_code, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			password_hash = EXCLUDED.password_hash,
			verification_code = EXCLUDED.verification_code,
			expires_at = EXCLUDED.expires_at`

	_, err := r.db.ExecContext(ctx, query, v.Email, v.PlayerName, v.PasswordHash, v.VerificationCode, v.ExpiresAt)
	return err
}

func (r *postgresVerificationRepository) GetByEmail(ctx context.Context, email string) (*models.PendingVerification, error) {
	query := `
		SELECT email, player_name, password_hash, verification_code, expires_at
		FROM pending_verifications
		WHERE email = $1`

	var v models.PendingVerification
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&v.Email, &v.PlayerName, &v.PasswordHash, &v.VerificationCode, &v.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresVerificationRepository) Delete(ctx context.Context, exec SQLExecutor, email string) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM pending_verifications WHERE email = $1`, email)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVerificationNotFound)
}
