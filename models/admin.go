package models

// AdminUser is provisioned out-of-band and only ever read by the HTTP API.
type AdminUser struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}
