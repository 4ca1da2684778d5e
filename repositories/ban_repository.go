package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

type postgresBanRepository struct {
	db *sql.DB
}

func NewPostgresBanRepository(db *sql.DB) ContentRepository[models.Ban] {
	return &postgresBanRepository{db: db}
}

const banColumns = `id, player_name, reason, duration, ban_date`

// List returns the most recent bans first; id breaks ties so the order is stable.
func (r *postgresBanRepository) List(ctx context.Context) ([]models.Ban, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+banColumns+` FROM banned_players ORDER BY ban_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bans := make([]models.Ban, 0)
	for rows.Next() {
		var b models.Ban
		if err := rows.Scan(&b.ID, &b.PlayerName, &b.Reason, &b.Duration, &b.BanDate); err != nil {
			return nil, err
		}
		bans = append(bans, b)
	}
	return bans, rows.Err()
}

func (r *postgresBanRepository) GetByID(ctx context.Context, id int) (*models.Ban, error) {
	var b models.Ban
	err := r.db.QueryRowContext(ctx, `SELECT `+banColumns+` FROM banned_players WHERE id = $1`, id).
		Scan(&b.ID, &b.PlayerName, &b.Reason, &b.Duration, &b.BanDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *postgresBanRepository) Create(ctx context.Context, b *models.Ban) error {
	query := `
		INSERT INTO banned_players (player_name, reason, duration, ban_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query, b.PlayerName, b.Reason, b.Duration, b.BanDate).Scan(&b.ID)
}

func (r *postgresBanRepository) Update(ctx context.Context, b *models.Ban) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE banned_players SET player_name = $1, reason = $2, duration = $3, ban_date = $4 WHERE id = $5`,
		b.PlayerName, b.Reason, b.Duration, b.BanDate, b.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresBanRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM banned_players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresBanRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM banned_players`)
}
