package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
	"github.com/eulark/eulark-site/utils"
)

const (
	verificationCodeDigits = 6
	resetTokenBytes        = 32
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	VerifyEmail(ctx context.Context, input VerifyEmailInput) (*models.PlayerSummary, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	AdminLogin(ctx context.Context, input AdminLoginInput) (*LoginResult, error)
	// ForgotPassword never reports whether the email is registered.
	ForgotPassword(ctx context.Context, email string)
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type RegisterInput struct {
	PlayerName string  `json:"player_name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Confirm    *string `json:"confirm,omitempty"`
}

type VerifyEmailInput struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AdminLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type LoginResult struct {
	Token string               `json:"token"`
	User  models.PlayerSummary `json:"user"`
}

type AuthConfig struct {
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

type AuthDependencies struct {
	Players       repositories.PlayerRepository
	Admins        repositories.AdminRepository
	Verifications repositories.VerificationRepository
	Resets        repositories.PasswordResetRepository
	Tx            repositories.Transactor
	Hasher        *utils.PasswordHasher
	Tokens        TokenService
	Mailer        Mailer
	Random        utils.Random
	Clock         utils.Clock
	Logger        *slog.Logger
}

type authService struct {
	AuthDependencies
	cfg AuthConfig
}

func NewAuthService(deps AuthDependencies, cfg AuthConfig) AuthService {
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = 15 * time.Minute
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &authService{AuthDependencies: deps, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) error {
	name := strings.TrimSpace(input.PlayerName)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return validationError("player_name, email and password are required")
	}
	if input.Confirm != nil && *input.Confirm != input.Password {
		return validationError("passwords do not match")
	}
	if err := models.CheckLength("player_name", name, models.MaxPlayerNameLength); err != nil {
		return validationError(err.Error())
	}
	if !utils.IsValidEmail(email) {
		return validationError("email address is not valid")
	}
	if len(input.Password) > models.MaxPasswordBytes {
		return validationError(fmt.Sprintf("password must be at most %d bytes", models.MaxPasswordBytes))
	}

	exists, err := s.Players.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	code, err := s.Random.Digits(verificationCodeDigits)
	if err != nil {
		return err
	}

	pending := &models.PendingVerification{
		Email:            email,
		PlayerName:       name,
		PasswordHash:     hash,
		VerificationCode: code,
		ExpiresAt:        s.Clock.Now().Add(s.cfg.VerificationTTL),
	}
	if err := s.Verifications.Upsert(ctx, pending); err != nil {
		return fmt.Errorf("failed to store pending verification: %w", err)
	}

	if err := s.Mailer.SendVerificationCode(ctx, email, name, code, s.cfg.VerificationTTL); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, input VerifyEmailInput) (*models.PlayerSummary, error) {
	email := strings.TrimSpace(input.Email)
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" {
		return nil, validationError("email and code are required")
	}

	pending, err := s.Verifications.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrVerificationNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("failed to load pending verification: %w", err)
	}

	if s.Clock.Now().After(pending.ExpiresAt) {
		if err := s.Verifications.Delete(ctx, nil, email); err != nil && !errors.Is(err, repositories.ErrVerificationNotFound) {
			s.Logger.WarnContext(ctx, "Failed to delete expired verification", slog.String("email", email), slog.Any("error", err))
		}
		return nil, ErrVerificationExpired
	}

	if subtle.ConstantTimeCompare([]byte(pending.VerificationCode), []byte(code)) != 1 {
		return nil, ErrInvalidCode
	}

	player := &models.Player{
		PlayerName:   pending.PlayerName,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
	}
	err = s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.Players.Create(ctx, exec, player); err != nil {
			return err
		}
		return s.Verifications.Delete(ctx, exec, email)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerEmailConflict),
			errors.Is(err, repositories.ErrPlayerNameConflict):
			return nil, ErrPlayerNameTaken
		case errors.Is(err, repositories.ErrVerificationNotFound):
			// a concurrent verification consumed the row first
			return nil, ErrVerificationNotFound
		default:
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
	}

	s.Logger.InfoContext(ctx, "Player registered", slog.Int("player_id", player.ID))
	return &models.PlayerSummary{ID: player.ID, PlayerName: player.PlayerName}, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, validationError("identifier and password are required")
	}

	player, err := s.Players.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find player: %w", err)
	}

	ok, err := s.Hasher.Check(player.PasswordHash, input.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.IssuePlayerToken(player)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: token,
		User:  models.PlayerSummary{ID: player.ID, Username: player.PlayerName},
	}, nil
}

func (s *authService) AdminLogin(ctx context.Context, input AdminLoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, validationError("username and password are required")
	}

	admin, err := s.Admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	ok, err := s.Hasher.Check(admin.PasswordHash, input.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.IssueAdminToken(admin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: token,
		User:  models.PlayerSummary{ID: admin.ID, Username: admin.Username},
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) {
	email = strings.TrimSpace(email)
	logger := s.Logger.With(slog.String("email", email))

	player, err := s.Players.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrPlayerNotFound) {
			logger.ErrorContext(ctx, "Failed to look up player for password reset", slog.Any("error", err))
		}
		return
	}

	token, err := s.Random.Token(resetTokenBytes)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate reset token", slog.Any("error", err))
		return
	}
	reset := &models.PasswordReset{
		Email:     player.Email,
		Token:     token,
		ExpiresAt: s.Clock.Now().Add(s.cfg.ResetTTL),
	}
	if err := s.Resets.Upsert(ctx, reset); err != nil {
		logger.ErrorContext(ctx, "Failed to store reset token", slog.Any("error", err))
		return
	}
	if err := s.Mailer.SendPasswordReset(ctx, player.Email, token, s.cfg.ResetTTL); err != nil {
		logger.ErrorContext(ctx, "Failed to send password reset email", slog.Any("error", err))
	}
}

func (s *authService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	token := strings.TrimSpace(input.Token)
	if token == "" || input.Password == "" || input.Confirm == "" {
		return validationError("token, password and confirm are required")
	}
	if input.Password != input.Confirm {
		return validationError("passwords do not match")
	}
	if len(input.Password) > models.MaxPasswordBytes {
		return validationError(fmt.Sprintf("password must be at most %d bytes", models.MaxPasswordBytes))
	}

	reset, err := s.Resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrPasswordResetNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to load reset token: %w", err)
	}
	if s.Clock.Now().After(reset.ExpiresAt) {
		if err := s.Resets.Delete(ctx, nil, reset.Email); err != nil && !errors.Is(err, repositories.ErrPasswordResetNotFound) {
			s.Logger.WarnContext(ctx, "Failed to delete expired reset token", slog.Any("error", err))
		}
		return ErrInvalidOrExpiredToken
	}

	player, err := s.Players.GetByEmail(ctx, reset.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to load player: %w", err)
	}

	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return err
	}

	err = s.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.Resets.Delete(ctx, exec, reset.Email); err != nil {
			return err
		}
		return s.Players.UpdatePassword(ctx, exec, player.ID, hash)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrPasswordResetNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
