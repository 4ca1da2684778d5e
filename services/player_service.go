package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
	"github.com/eulark/eulark-site/utils"
)

const DefaultCheckinReward = 10

type PlayerService interface {
	Status(ctx context.Context, playerID int) (*models.PlayerStatus, error)
	Checkin(ctx context.Context, playerID int) (*models.CheckinResult, error)
	HasSpecialPermission(ctx context.Context, playerID int) (bool, error)
	ListPlayers(ctx context.Context, filter models.PlayerFilter) (*models.PlayerListResponse, error)
	DeletePlayer(ctx context.Context, playerID int) error
}

type playerService struct {
	players     repositories.PlayerRepository
	permissions repositories.PermissionRepository
	clock       utils.Clock
	reward      int
	logger      *slog.Logger
}

func NewPlayerService(players repositories.PlayerRepository, permissions repositories.PermissionRepository, clock utils.Clock, reward int, logger *slog.Logger) PlayerService {
	if reward <= 0 {
		reward = DefaultCheckinReward
	}
	return &playerService{
		players:     players,
		permissions: permissions,
		clock:       clock,
		reward:      reward,
		logger:      logger,
	}
}

// today is the current UTC calendar day at midnight.
func (s *playerService) today() time.Time {
	return s.clock.Now().UTC().Truncate(24 * time.Hour)
}

func (s *playerService) Status(ctx context.Context, playerID int) (*models.PlayerStatus, error) {
	player, err := s.player(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &models.PlayerStatus{
		PlayerName:  player.PlayerName,
		Score:       player.Score,
		LastCheckin: player.LastCheckin,
		CanCheckin:  player.LastCheckin == nil || player.LastCheckin.Before(s.today()),
	}, nil
}

func (s *playerService) Checkin(ctx context.Context, playerID int) (*models.CheckinResult, error) {
	score, err := s.players.Checkin(ctx, playerID, s.today(), s.reward)
	if err != nil {
		if !errors.Is(err, repositories.ErrCheckinNotApplied) {
			return nil, fmt.Errorf("failed to check in player %d: %w", playerID, err)
		}
		if _, err := s.player(ctx, playerID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyCheckedIn
	}
	s.logger.InfoContext(ctx, "Player checked in", slog.Int("player_id", playerID), slog.Int("score", score))
	return &models.CheckinResult{Score: score, Awarded: s.reward}, nil
}

func (s *playerService) HasSpecialPermission(ctx context.Context, playerID int) (bool, error) {
	ok, err := s.permissions.HasSpecialPermission(ctx, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to check special permission: %w", err)
	}
	return ok, nil
}

func (s *playerService) ListPlayers(ctx context.Context, filter models.PlayerFilter) (*models.PlayerListResponse, error) {
	if filter.Page < 0 || filter.Limit < 0 {
		return nil, validationError("page and limit must not be negative")
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	players, total, err := s.players.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return &models.PlayerListResponse{
		Players:    players,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, playerID int) error {
	if err := s.players.Delete(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", playerID, err)
	}
	s.logger.InfoContext(ctx, "Player deleted", slog.Int("player_id", playerID))
	return nil
}

func (s *playerService) player(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}
	return player, nil
}
