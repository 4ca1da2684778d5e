package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/eulark/eulark-site/internal/testsupport/memory"
	"github.com/eulark/eulark-site/models"
)

type recordingNotifier struct {
	mu      sync.Mutex
	tickets []models.ContactMessage
}

func (n *recordingNotifier) TicketCreated(ctx context.Context, msg *models.ContactMessage) {
	n.mu.Lock()
	n.tickets = append(n.tickets, *msg)
	n.mu.Unlock()
}

type TicketServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	notifier *recordingNotifier
	svc      TicketService
	player   models.Player
}

func TestTicketServiceSuite(t *testing.T) {
	suite.Run(t, new(TicketServiceSuite))
}

func (s *TicketServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.notifier = &recordingNotifier{}
	s.svc = NewTicketService(s.store.Messages(), s.store.Players(), s.notifier, nopLogger())

	s.player = models.Player{PlayerName: "alice", Email: "a@x.com", PasswordHash: "h"}
	s.Require().NoError(s.store.Players().Create(s.ctx, nil, &s.player))
}

func (s *TicketServiceSuite) TestSubmitResolvesEmailFromPlayer() {
	msg, err := s.svc.Submit(s.ctx, s.player.ID, "  help  ")
	s.Require().NoError(err)
	s.Equal("a@x.com", msg.Email)
	s.Equal("alice", msg.PlayerName)
	s.Equal("help", msg.Message)
	s.Equal(models.MessageOpen, msg.Status)

	s.Require().Len(s.notifier.tickets, 1)
	s.Equal(msg.ID, s.notifier.tickets[0].ID)
}

func (s *TicketServiceSuite) TestSubmitValidation() {
	_, err := s.svc.Submit(s.ctx, s.player.ID, "   ")
	s.ErrorIs(err, ErrValidationFailed)

	_, err = s.svc.Submit(s.ctx, s.player.ID, strings.Repeat("x", maxTicketLength+1))
	s.ErrorIs(err, ErrValidationFailed)
	s.Empty(s.notifier.tickets)
}

func (s *TicketServiceSuite) TestSubmitForMissingPlayerIsInternal() {
	_, err := s.svc.Submit(s.ctx, 999, "help")
	s.Require().Error(err)
	s.NotErrorIs(err, ErrNotFound)
	s.NotErrorIs(err, ErrValidationFailed)
}

func (s *TicketServiceSuite) TestStatusTransitions() {
	msg, err := s.svc.Submit(s.ctx, s.player.ID, "help")
	s.Require().NoError(err)

	read, err := s.svc.UpdateStatus(s.ctx, msg.ID, models.MessageRead)
	s.Require().NoError(err)
	s.Equal(models.MessageRead, read.Status)

	_, err = s.svc.UpdateStatus(s.ctx, msg.ID, models.MessageOpen)
	s.ErrorIs(err, ErrInvalidStatusTransition)
	s.ErrorIs(err, ErrValidationFailed)

	again, err := s.svc.UpdateStatus(s.ctx, msg.ID, models.MessageRead)
	s.Require().NoError(err)
	s.Equal(models.MessageRead, again.Status)

	closed, err := s.svc.UpdateStatus(s.ctx, msg.ID, models.MessageClosed)
	s.Require().NoError(err)
	s.Equal(models.MessageClosed, closed.Status)

	_, err = s.svc.UpdateStatus(s.ctx, msg.ID, models.MessageStatus("archived"))
	s.ErrorIs(err, ErrValidationFailed)
	_, err = s.svc.UpdateStatus(s.ctx, 999, models.MessageClosed)
	s.ErrorIs(err, ErrNotFound)
}

func (s *TicketServiceSuite) TestOpenCanCloseDirectly() {
	msg, err := s.svc.Submit(s.ctx, s.player.ID, "help")
	s.Require().NoError(err)
	_, err = s.svc.UpdateStatus(s.ctx, msg.ID, models.MessageClosed)
	s.NoError(err)
}

func (s *TicketServiceSuite) TestListFiltersByStatus() {
	first, err := s.svc.Submit(s.ctx, s.player.ID, "one")
	s.Require().NoError(err)
	second, err := s.svc.Submit(s.ctx, s.player.ID, "two")
	s.Require().NoError(err)
	_, err = s.svc.UpdateStatus(s.ctx, first.ID, models.MessageRead)
	s.Require().NoError(err)

	all, err := s.svc.List(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(second.ID, all[0].ID, "newest first")

	open, err := s.svc.List(s.ctx, "open")
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(second.ID, open[0].ID)

	_, err = s.svc.List(s.ctx, "bogus")
	s.ErrorIs(err, ErrValidationFailed)
}

func (s *TicketServiceSuite) TestDelete() {
	msg, err := s.svc.Submit(s.ctx, s.player.ID, "help")
	s.Require().NoError(err)
	s.NoError(s.svc.Delete(s.ctx, msg.ID))
	s.ErrorIs(s.svc.Delete(s.ctx, msg.ID), ErrNotFound)
}
