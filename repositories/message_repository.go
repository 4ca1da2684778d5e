package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eulark/eulark-site/models"
)

var (
	ErrMessageNotFound      = errors.New("contact message not found")
	ErrMessagePlayerInvalid = errors.New("contact message player invalid")
)

type MessageRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	// List returns newest first. A nil status lists every ticket.
	List(ctx context.Context, status *models.MessageStatus) ([]models.ContactMessage, error)
	GetByID(ctx context.Context, id int) (*models.ContactMessage, error)
	// UpdateStatus moves a ticket to next only if it is still in from.
	UpdateStatus(ctx context.Context, id int, from, next models.MessageStatus) error
	Delete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context, status models.MessageStatus) (int, error)
}

type postgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

const messageColumns = `id, player_id, player_name, email, message, status, created_at`

func (r *postgresMessageRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (player_id, player_name, email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at`

	err := r.db.QueryRowContext(ctx, query, msg.PlayerID, msg.PlayerName, msg.Email, msg.Message).
		Scan(&msg.ID, &msg.Status, &msg.CreatedAt)
	if err != nil {
		if code, _ := pqCode(err); code == pqForeignKeyViolation {
			return ErrMessagePlayerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMessageRepository) List(ctx context.Context, status *models.MessageStatus) ([]models.ContactMessage, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+messageColumns+` FROM contact_messages WHERE status = $1 ORDER BY created_at DESC, id DESC`, *status)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+messageColumns+` FROM contact_messages ORDER BY created_at DESC, id DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.PlayerName, &m.Email, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *postgresMessageRepository) GetByID(ctx context.Context, id int) (*models.ContactMessage, error) {
	var m models.ContactMessage
	err := r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = $1`, id).
		Scan(&m.ID, &m.PlayerID, &m.PlayerName, &m.Email, &m.Message, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMessageRepository) UpdateStatus(ctx context.Context, id int, from, next models.MessageStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = $1 WHERE id = $2 AND status = $3`, next, id, from)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMessageNotFound)
}

func (r *postgresMessageRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMessageNotFound)
}

func (r *postgresMessageRepository) CountByStatus(ctx context.Context, status models.MessageStatus) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM contact_messages WHERE status = $1`, status)
}
