package models

import "time"

// PendingVerification holds registration data until the emailed code is confirmed.
// There is at most one row per email.
type PendingVerification struct {
	Email            string    `db:"email"`
	PlayerName       string    `db:"player_name"`
	PasswordHash     string    `db:"password_hash"`
	VerificationCode string    `db:"verification_code"`
	ExpiresAt        time.Time `db:"expires_at"`
}

// PasswordReset is a single-use reset token, one per email.
type PasswordReset struct {
	Email     string    `db:"email"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
}
