package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
)

// Counter is anything that can report a row count.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type DashboardSources struct {
	Players  Counter
	Messages repositories.MessageRepository
	Rules    Counter
	Commands Counter
	Bans     Counter
	Sponsors Counter
}

type dashboardService struct {
	src DashboardSources
}

func NewDashboardService(src DashboardSources) DashboardService {
	return &dashboardService{src: src}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int, c Counter) {
		g.Go(func() error {
			n, err := c.Count(gctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&stats.PlayersTotal, s.src.Players)
	count(&stats.Rules, s.src.Rules)
	count(&stats.Commands, s.src.Commands)
	count(&stats.Bans, s.src.Bans)
	count(&stats.Sponsors, s.src.Sponsors)
	g.Go(func() error {
		n, err := s.src.Messages.CountByStatus(gctx, models.MessageOpen)
		if err != nil {
			return err
		}
		stats.OpenTickets = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to gather dashboard stats: %w", err)
	}
	return stats, nil
}
