package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

type postgresRuleRepository struct {
	db *sql.DB
}

func NewPostgresRuleRepository(db *sql.DB) ContentRepository[models.Rule] {
	return &postgresRuleRepository{db: db}
}

func (r *postgresRuleRepository) List(ctx context.Context) ([]models.Rule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, category, description, created_at FROM server_rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]models.Rule, 0)
	for rows.Next() {
		var rule models.Rule
		if err := rows.Scan(&rule.ID, &rule.Category, &rule.Description, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *postgresRuleRepository) GetByID(ctx context.Context, id int) (*models.Rule, error) {
	var rule models.Rule
	err := r.db.QueryRowContext(ctx,
		`SELECT id, category, description, created_at FROM server_rules WHERE id = $1`, id).
		Scan(&rule.ID, &rule.Category, &rule.Description, &rule.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *postgresRuleRepository) Create(ctx context.Context, rule *models.Rule) error {
	query := `INSERT INTO server_rules (category, description) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, rule.Category, rule.Description).Scan(&rule.ID, &rule.CreatedAt)
}

func (r *postgresRuleRepository) Update(ctx context.Context, rule *models.Rule) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE server_rules SET category = $1, description = $2 WHERE id = $3`,
		rule.Category, rule.Description, rule.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresRuleRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM server_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresRuleRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM server_rules`)
}
