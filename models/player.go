package models

import "time"

// Player is a verified community member.
type Player struct {
	ID           int        `json:"id" db:"id"`
	PlayerName   string     `json:"player_name" db:"player_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Score        int        `json:"score" db:"score"`
	LastCheckin  *time.Time `json:"last_checkin,omitempty" db:"last_checkin"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// PlayerSummary is what login and verification hand back to the client.
type PlayerSummary struct {
	ID         int    `json:"id"`
	PlayerName string `json:"player_name,omitempty"`
	Username   string `json:"username,omitempty"`
}

type PlayerStatus struct {
	PlayerName  string     `json:"player_name"`
	Score       int        `json:"score"`
	LastCheckin *time.Time `json:"last_checkin,omitempty"`
	CanCheckin  bool       `json:"can_checkin"`
}

type CheckinResult struct {
	Score   int `json:"score"`
	Awarded int `json:"awarded"`
}

type PlayerFilter struct {
	Search string
	Page   int
	Limit  int
}

type PlayerListResponse struct {
	Players    []Player `json:"players"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
}
