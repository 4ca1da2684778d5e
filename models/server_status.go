package models

import "time"

// ServerStatus is the trimmed result of the third-party status lookup.
type ServerStatus struct {
	Online        bool      `json:"online"`
	PlayersOnline int       `json:"players_online"`
	PlayersMax    int       `json:"players_max"`
	Motd          string    `json:"motd,omitempty"`
	Version       string    `json:"version,omitempty"`
	CheckedAt     time.Time `json:"checked_at"`
}
