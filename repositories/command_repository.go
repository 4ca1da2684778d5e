package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

type postgresCommandRepository struct {
	db *sql.DB
}

func NewPostgresCommandRepository(db *sql.DB) ContentRepository[models.Command] {
	return &postgresCommandRepository{db: db}
}

const commandColumns = `id, command, description, permission, created_at`

func (r *postgresCommandRepository) List(ctx context.Context) ([]models.Command, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+commandColumns+` FROM server_commands ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commands := make([]models.Command, 0)
	for rows.Next() {
		var c models.Command
		if err := rows.Scan(&c.ID, &c.Command, &c.Description, &c.Permission, &c.CreatedAt); err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}

func (r *postgresCommandRepository) GetByID(ctx context.Context, id int) (*models.Command, error) {
	var c models.Command
	err := r.db.QueryRowContext(ctx, `SELECT `+commandColumns+` FROM server_commands WHERE id = $1`, id).
		Scan(&c.ID, &c.Command, &c.Description, &c.Permission, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCommandRepository) Create(ctx context.Context, c *models.Command) error {
	query := `
		INSERT INTO server_commands (command, description, permission)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, c.Command, c.Description, c.Permission).Scan(&c.ID, &c.CreatedAt)
}

func (r *postgresCommandRepository) Update(ctx context.Context, c *models.Command) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE server_commands SET command = $1, description = $2, permission = $3 WHERE id = $4`,
		c.Command, c.Description, c.Permission, c.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresCommandRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM server_commands WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRecordNotFound)
}

func (r *postgresCommandRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM server_commands`)
}
