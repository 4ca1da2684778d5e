package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
)

const maxTicketLength = 2000

// TicketNotifier is told about every newly submitted ticket. Delivery is best effort.
type TicketNotifier interface {
	TicketCreated(ctx context.Context, msg *models.ContactMessage)
}

type TicketService interface {
	// Submit stores a ticket for playerID. The email is taken from the player row.
	Submit(ctx context.Context, playerID int, message string) (*models.ContactMessage, error)
	List(ctx context.Context, status string) ([]models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id int, next models.MessageStatus) (*models.ContactMessage, error)
	Delete(ctx context.Context, id int) error
}

type ticketService struct {
	messages repositories.MessageRepository
	players  repositories.PlayerRepository
	notifier TicketNotifier
	logger   *slog.Logger
}

func NewTicketService(messages repositories.MessageRepository, players repositories.PlayerRepository, notifier TicketNotifier, logger *slog.Logger) TicketService {
	return &ticketService{
		messages: messages,
		players:  players,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *ticketService) Submit(ctx context.Context, playerID int, message string) (*models.ContactMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validationError("message must not be empty")
	}
	if utf8.RuneCountInString(message) > maxTicketLength {
		return nil, validationError(fmt.Sprintf("message must be at most %d characters", maxTicketLength))
	}

	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		// a valid token whose player row is gone is a server-side inconsistency
		return nil, fmt.Errorf("failed to resolve ticket author %d: %w", playerID, err)
	}

	msg := &models.ContactMessage{
		PlayerID:   player.ID,
		PlayerName: player.PlayerName,
		Email:      player.Email,
		Message:    message,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store ticket: %w", err)
	}

	s.logger.InfoContext(ctx, "Ticket submitted", slog.Int("ticket_id", msg.ID), slog.Int("player_id", player.ID))
	if s.notifier != nil {
		s.notifier.TicketCreated(ctx, msg)
	}
	return msg, nil
}

func (s *ticketService) List(ctx context.Context, status string) ([]models.ContactMessage, error) {
	var filter *models.MessageStatus
	if status != "" {
		st := models.MessageStatus(status)
		if !st.Valid() {
			return nil, validationError("status must be one of open, read, closed")
		}
		filter = &st
	}
	msgs, err := s.messages.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return msgs, nil
}

// UpdateStatus moves a ticket along open -> read -> closed. Setting the
// current status again is a no-op.
func (s *ticketService) UpdateStatus(ctx context.Context, id int, next models.MessageStatus) (*models.ContactMessage, error) {
	if !next.Valid() {
		return nil, validationError("status must be one of open, read, closed")
	}
	msg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Status == next {
		return msg, nil
	}
	if !msg.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.messages.UpdateStatus(ctx, id, msg.Status, next); err != nil {
		if !errors.Is(err, repositories.ErrMessageNotFound) {
			return nil, fmt.Errorf("failed to update ticket %d: %w", id, err)
		}
		// deleted or moved by another admin in the meantime
		if _, getErr := s.get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInvalidStatusTransition
	}
	msg.Status = next
	return msg, nil
}

func (s *ticketService) Delete(ctx context.Context, id int) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete ticket %d: %w", id, err)
	}
	return nil
}

func (s *ticketService) get(ctx context.Context, id int) (*models.ContactMessage, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load ticket %d: %w", id, err)
	}
	return msg, nil
}
