package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/eulark/eulark-site/models"
)

func TestVerificationUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresVerificationRepository(db)
	exp := time.Now().Add(15 * time.Minute)

	mock.ExpectExec("INSERT INTO pending_verifications.*ON CONFLICT \\(email\\) DO UPDATE").
		WithArgs("a@x.com", "alice", "hash", "123456", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.PendingVerification{
		Email: "a@x.com", PlayerName: "alice", PasswordHash: "hash", VerificationCode: "123456", ExpiresAt: exp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestVerificationGetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresVerificationRepository(db)
	mock.ExpectQuery("SELECT.*FROM pending_verifications").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "player_name", "password_hash", "verification_code", "expires_at"}))

	_, err := repo.GetByEmail(context.Background(), "a@x.com")
	if !errors.Is(err, ErrVerificationNotFound) {
		t.Errorf("err = %v, want ErrVerificationNotFound", err)
	}
}

func TestVerificationDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresVerificationRepository(db)
	mock.ExpectExec("DELETE FROM pending_verifications").
		WithArgs("a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), nil, "a@x.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPasswordResetGetByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresPasswordResetRepository(db)
	exp := time.Now().Add(time.Hour)
	mock.ExpectQuery("SELECT email, token, expires_at FROM password_resets").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"email", "token", "expires_at"}).AddRow("a@x.com", "tok", exp))

	reset, err := repo.GetByToken(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reset.Email != "a@x.com" {
		t.Errorf("Email = %q, want a@x.com", reset.Email)
	}
}

func TestPasswordResetDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresPasswordResetRepository(db)
	mock.ExpectExec("DELETE FROM password_resets").
		WithArgs("a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), nil, "a@x.com"); !errors.Is(err, ErrPasswordResetNotFound) {
		t.Errorf("err = %v, want ErrPasswordResetNotFound", err)
	}
}
