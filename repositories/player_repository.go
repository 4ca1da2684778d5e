package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eulark/eulark-site/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerEmailConflict = errors.New("player email conflict")
	ErrPlayerNameConflict  = errors.New("player name conflict")
	ErrCheckinNotApplied   = errors.New("checkin not applied")
)

// likeEscaper makes LIKE wildcards in a search string match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	// GetByIdentifier matches either the player name or the email.
	GetByIdentifier(ctx context.Context, identifier string) (*models.Player, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, exec SQLExecutor, id int, passwordHash string) error
	// Checkin adds reward to the score and stamps day, but only if the player
	// has not checked in on day yet. Returns ErrCheckinNotApplied otherwise.
	Checkin(ctx context.Context, id int, day time.Time, reward int) (int, error)
	List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, int, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, player_name, email, password_hash, score, last_checkin, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (player_name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, score, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		player.PlayerName,
		player.Email,
		player.PasswordHash,
	).Scan(&player.ID, &player.Score, &player.CreatedAt)
	if err != nil {
		if code, constraint := pqCode(err); code == pqUniqueViolation {
			if constraint == "players_player_name_key" {
				return ErrPlayerNameConflict
			}
			return ErrPlayerEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(ctx, query, id)
}

func (r *postgresPlayerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE email = $1`
	return r.scanPlayer(ctx, query, email)
}

func (r *postgresPlayerRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Player, error) {
	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE player_name = $1 OR email = $1
		ORDER BY id
		LIMIT 1`
	return r.scanPlayer(ctx, query, identifier)
}

func (r *postgresPlayerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check player email: %w", err)
	}
	return exists, nil
}

func (r *postgresPlayerRepository) UpdatePassword(ctx context.Context, exec SQLExecutor, id int, passwordHash string) error {
	result, err := executor(r.db, exec).ExecContext(ctx,
		`UPDATE players SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Checkin(ctx context.Context, id int, day time.Time, reward int) (int, error) {
	// One conditional statement so two concurrent check-ins cannot both pay out.
	query := `
		UPDATE players
		SET score = score + $1, last_checkin = $2
		WHERE id = $3 AND (last_checkin IS NULL OR last_checkin < $2)
		RETURNING score`

	var score int
	err := r.db.QueryRowContext(ctx, query, reward, day, id).Scan(&score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCheckinNotApplied
		}
		return 0, err
	}
	return score, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.Player, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	pattern := "%" + likeEscaper.Replace(filter.Search) + "%"

	total, err := countRows(ctx, r.db,
		`SELECT COUNT(*) FROM players WHERE player_name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\'`, pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count players: %w", err)
	}

	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE player_name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\'
		ORDER BY id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, pattern, filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.PlayerName, &p.Email, &p.PasswordHash, &p.Score, &p.LastCheckin, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return players, total, nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM players`)
}

func (r *postgresPlayerRepository) scanPlayer(ctx context.Context, query string, args ...interface{}) (*models.Player, error) {
	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.PlayerName,
		&p.Email,
		&p.PasswordHash,
		&p.Score,
		&p.LastCheckin,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}
