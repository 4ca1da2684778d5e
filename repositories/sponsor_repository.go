package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

type SponsorRepository interface {
	ContentRepository[models.Sponsor]
	// SetLogo records the storage key of the sponsor's logo; nil clears it.
	SetLogo(ctx context.Context, id int, logoKey *string) error
}

type postgresSponsorRepository struct {
	db *sql.DB
}

func NewPostgresSponsorRepository(db *sql.DB) SponsorRepository {
	return &postgresSponsorRepository{db: db}
}

const sponsorColumns = `id, name, amount, logo_key, created_at`

func (r *postgresSponsorRepository) List(ctx context.Context) ([]models.Sponsor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sponsors := make([]models.Sponsor, 0)
	for rows.Next() {
		var s models.Sponsor
		if err := rows.Scan(&s.ID, &s.Name, &s.Amount, &s.LogoKey, &s.CreatedAt); err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

func (r *postgresSponsorRepository) GetByID(ctx context.Context, id int) (*models.Sponsor, error) {
	var s models.Sponsor
	err := r.db.QueryRowContext(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Amount, &s.LogoKey, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSponsorRepository) Create(ctx context.Context, s *models.Sponsor) error {
	query := `INSERT INTO sponsors (name, amount) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, s.Name, s.Amount).Scan(&s.ID, &s.CreatedAt)
}

func (r *postgresSponsorRepository) Update(ctx context.Context, s *models.Sponsor) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sponsors SET name = $1, amount = $2 WHERE id = $3`, s.Name, s.Amount, s.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresSponsorRepository) SetLogo(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sponsors SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresSponsorRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresSponsorRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM sponsors`)
}
