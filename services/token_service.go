package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/utils"
)

// Claims is the payload of both player and admin tokens. Admin tokens carry
// IsAdmin and Username; player tokens carry PlayerName.
type Claims struct {
	ID         int    `json:"id"`
	PlayerName string `json:"player_name,omitempty"`
	Username   string `json:"username,omitempty"`
	IsAdmin    bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

type TokenService interface {
	IssuePlayerToken(player *models.Player) (string, error)
	IssueAdminToken(admin *models.AdminUser) (string, error)
	// Verify returns ErrInvalidToken for any malformed, forged or expired token.
	Verify(raw string) (*Claims, error)
}

type TokenConfig struct {
	Secret    []byte
	Issuer    string
	PlayerTTL time.Duration
	AdminTTL  time.Duration
}

type tokenService struct {
	cfg    TokenConfig
	clock  utils.Clock
	parser *jwt.Parser
}

func NewTokenService(cfg TokenConfig, clock utils.Clock) TokenService {
	if cfg.PlayerTTL <= 0 {
		cfg.PlayerTTL = 24 * time.Hour
	}
	if cfg.AdminTTL <= 0 {
		cfg.AdminTTL = 8 * time.Hour
	}
	return &tokenService{
		cfg:   cfg,
		clock: clock,
		// Time claims are checked against the injected clock in Verify.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

func (s *tokenService) IssuePlayerToken(player *models.Player) (string, error) {
	return s.sign(Claims{ID: player.ID, PlayerName: player.PlayerName}, s.cfg.PlayerTTL)
}

func (s *tokenService) IssueAdminToken(admin *models.AdminUser) (string, error) {
	return s.sign(Claims{ID: admin.ID, Username: admin.Username, IsAdmin: true}, s.cfg.AdminTTL)
}

func (s *tokenService) sign(claims Claims, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.Itoa(claims.ID),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	now := s.clock.Now()
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyIssuer(s.cfg.Issuer, s.cfg.Issuer != "") || claims.ID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
