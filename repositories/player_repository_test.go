package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/eulark/eulark-site/models"
)

var errDB = errors.New("db error")

var playerCols = []string{"id", "player_name", "email", "password_hash", "score", "last_checkin", "created_at"}

func samplePlayerRow() *sqlmock.Rows {
	return sqlmock.NewRows(playerCols).
		AddRow(7, "alice", "a@x.com", "$2a$hash", 30, nil, time.Now())
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newPlayerRepo(t *testing.T) (PlayerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewPostgresPlayerRepository(db), mock
}

func TestPlayerCreate_Success(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	now := time.Now()
	mock.ExpectQuery("INSERT INTO players").
		WithArgs("alice", "a@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "score", "created_at"}).AddRow(1, 0, now))

	p := &models.Player{PlayerName: "alice", Email: "a@x.com", PasswordHash: "hash"}
	if err := repo.Create(context.Background(), nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 1 {
		t.Errorf("ID = %d, want 1", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPlayerCreate_Conflicts(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"players_player_name_key", ErrPlayerNameConflict},
		{"players_email_key", ErrPlayerEmailConflict},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock := newPlayerRepo(t)
			mock.ExpectQuery("INSERT INTO players").
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			err := repo.Create(context.Background(), nil, &models.Player{PlayerName: "alice", Email: "a@x.com"})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlayerGetByIdentifier_Found(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectQuery("SELECT.*FROM players.*WHERE player_name = \\$1 OR email = \\$1").
		WithArgs("a@x.com").
		WillReturnRows(samplePlayerRow())

	p, err := repo.GetByIdentifier(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PlayerName != "alice" {
		t.Errorf("PlayerName = %q, want alice", p.PlayerName)
	}
	if p.LastCheckin != nil {
		t.Errorf("LastCheckin = %v, want nil", p.LastCheckin)
	}
}

func TestPlayerGetByIdentifier_NotFound(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectQuery("SELECT.*FROM players").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(playerCols))

	_, err := repo.GetByIdentifier(context.Background(), "nobody")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestPlayerGetByID_DBError(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectQuery("SELECT.*FROM players.*WHERE id").
		WithArgs(7).
		WillReturnError(errDB)

	_, err := repo.GetByID(context.Background(), 7)
	if !errors.Is(err, errDB) {
		t.Errorf("err = %v, want errDB", err)
	}
}

func TestPlayerEmailExists(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected email to exist")
	}
}

func TestPlayerUpdatePassword_NotFound(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectExec("UPDATE players SET password_hash").
		WithArgs("newhash", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), nil, 99, "newhash")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestPlayerCheckin_Applied(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE players.*last_checkin IS NULL OR last_checkin < \\$2.*RETURNING score").
		WithArgs(10, day, 7).
		WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(40))

	score, err := repo.Checkin(context.Background(), 7, day, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 40 {
		t.Errorf("score = %d, want 40", score)
	}
}

func TestPlayerCheckin_AlreadyToday(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE players").
		WithArgs(10, day, 7).
		WillReturnRows(sqlmock.NewRows([]string{"score"}))

	_, err := repo.Checkin(context.Background(), 7, day, 10)
	if !errors.Is(err, ErrCheckinNotApplied) {
		t.Errorf("err = %v, want ErrCheckinNotApplied", err)
	}
}

func TestPlayerList_Paginates(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM players").
		WithArgs("%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery("SELECT.*FROM players.*LIMIT \\$2 OFFSET \\$3").
		WithArgs("%ali%", 20, 20).
		WillReturnRows(samplePlayerRow())

	players, total, err := repo.List(context.Background(), models.PlayerFilter{Search: "ali", Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 21 || len(players) != 1 {
		t.Errorf("total = %d, len = %d; want 21, 1", total, len(players))
	}
}

func TestPlayerList_EscapesWildcards(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM players WHERE player_name ILIKE \\$1 ESCAPE").
		WithArgs(`%100\%\_a\\b%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT.*FROM players.*ESCAPE.*LIMIT \\$2 OFFSET \\$3").
		WithArgs(`%100\%\_a\\b%`, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "player_name", "email", "password_hash", "score", "last_checkin", "created_at"}))

	players, total, err := repo.List(context.Background(), models.PlayerFilter{Search: `100%_a\b`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(players) != 0 {
		t.Errorf("total = %d, len = %d; want 0, 0", total, len(players))
	}
}

func TestPlayerDelete_NotFound(t *testing.T) {
	repo, mock := newPlayerRepo(t)
	mock.ExpectExec("DELETE FROM players").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 3); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}
