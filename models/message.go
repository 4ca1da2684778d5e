package models

import "time"

// MessageStatus is the ticket lifecycle state.
type MessageStatus string

const (
	MessageOpen   MessageStatus = "open"
	MessageRead   MessageStatus = "read"
	MessageClosed MessageStatus = "closed"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageOpen, MessageRead, MessageClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether an admin may move a ticket from s to next.
func (s MessageStatus) CanTransitionTo(next MessageStatus) bool {
	switch s {
	case MessageOpen:
		return next == MessageRead || next == MessageClosed
	case MessageRead:
		return next == MessageClosed
	}
	return false
}

// ContactMessage is a player-submitted support ticket.
type ContactMessage struct {
	ID         int           `json:"id" db:"id"`
	PlayerID   int           `json:"player_id" db:"player_id"`
	PlayerName string        `json:"player_name" db:"player_name"`
	Email      string        `json:"email" db:"email"`
	Message    string        `json:"message" db:"message"`
	Status     MessageStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}
