package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/utils"
)

const (
	DefaultStatusAPIBase  = "https://api.mcsrvstat.us/3"
	DefaultStatusCacheTTL = 30 * time.Second

	statusFetchTimeout = 5 * time.Second
)

type StatusService interface {
	// Current never fails: upstream errors are logged and reported as offline.
	Current(ctx context.Context) models.ServerStatus
}

type StatusConfig struct {
	APIBase       string
	ServerAddress string
	CacheTTL      time.Duration
}

type statusService struct {
	cfg    StatusConfig
	client *http.Client
	clock  utils.Clock
	logger *slog.Logger

	group  singleflight.Group
	mu     sync.Mutex
	cached *models.ServerStatus
}

func NewStatusService(cfg StatusConfig, client *http.Client, clock utils.Clock, logger *slog.Logger) StatusService {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultStatusAPIBase
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultStatusCacheTTL
	}
	if client == nil {
		client = &http.Client{Timeout: statusFetchTimeout}
	}
	return &statusService{cfg: cfg, client: client, clock: clock, logger: logger}
}

// upstreamStatus is the subset of the mcsrvstat.us v3 response we use.
type upstreamStatus struct {
	Online  bool   `json:"online"`
	Version string `json:"version"`
	Players struct {
		Online int `json:"online"`
		Max    int `json:"max"`
	} `json:"players"`
	Motd struct {
		Clean []string `json:"clean"`
	} `json:"motd"`
}

func (s *statusService) Current(ctx context.Context) models.ServerStatus {
	s.mu.Lock()
	if s.cached != nil && s.clock.Now().Sub(s.cached.CheckedAt) < s.cfg.CacheTTL {
		st := *s.cached
		s.mu.Unlock()
		return st
	}
	s.mu.Unlock()

	// The fetch is shared by every waiting caller, so it must outlive the
	// request that happened to start it.
	v, _, _ := s.group.Do("status", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusFetchTimeout)
		defer cancel()

		st := s.fetch(fetchCtx)
		if fetchCtx.Err() == nil {
			s.mu.Lock()
			s.cached = &st
			s.mu.Unlock()
		}
		return st, nil
	})
	return v.(models.ServerStatus)
}

func (s *statusService) fetch(ctx context.Context) models.ServerStatus {
	now := s.clock.Now()
	offline := models.ServerStatus{Online: false, CheckedAt: now}
	if s.cfg.ServerAddress == "" {
		return offline
	}

	endpoint := strings.TrimRight(s.cfg.APIBase, "/") + "/" + url.PathEscape(s.cfg.ServerAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build status request", slog.Any("error", err))
		return offline
	}
	// mcsrvstat.us rejects requests without a user agent
	req.Header.Set("User-Agent", "eulark-site/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WarnContext(ctx, "Server status lookup failed", slog.Any("error", err))
		return offline
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.WarnContext(ctx, "Server status lookup returned non-200", slog.Int("status", resp.StatusCode))
		return offline
	}

	var up upstreamStatus
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		s.logger.WarnContext(ctx, "Failed to decode server status", slog.Any("error", fmt.Errorf("decode: %w", err)))
		return offline
	}

	return models.ServerStatus{
		Online:        up.Online,
		PlayersOnline: up.Players.Online,
		PlayersMax:    up.Players.Max,
		Motd:          strings.Join(up.Motd.Clean, "\n"),
		Version:       up.Version,
		CheckedAt:     now,
	}
}
