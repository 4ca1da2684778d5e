// @title Eulark community site API
// @version 1.0
// @description Rules, bans, sponsors, tickets and player accounts for the Eulark game server.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/eulark/eulark-site/config"
	"github.com/eulark/eulark-site/db"
	"github.com/eulark/eulark-site/handlers"
	"github.com/eulark/eulark-site/middleware"
	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/notify"
	"github.com/eulark/eulark-site/repositories"
	api "github.com/eulark/eulark-site/routes"
	"github.com/eulark/eulark-site/services"
	"github.com/eulark/eulark-site/storage"
	"github.com/eulark/eulark-site/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("email_provider", cfg.EmailProvider))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.RunMigrations(dbConn, "up"); err != nil {
		return err
	}
	logger.Info("database ready")

	var uploader storage.FileUploader
	r2cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2cfg.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, r2cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("R2 not configured, sponsor logo uploads disabled")
	}

	var limiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(rdb, "auth", middleware.AuthRateLimit(), logger)
		logger.Info("auth rate limiting enabled")
	}

	sender, err := newEmailSender(cfg, logger)
	if err != nil {
		return err
	}
	mailer, err := services.NewEmailService(sender, cfg.PublicURL)
	if err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}

	wsHub := notify.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		wsHub.Run(ctx)
		close(hubDone)
	}()

	notifier := notify.Multi{wsHub}
	if cfg.DiscordEnabled() {
		discord, err := notify.NewDiscordNotifier(cfg.DiscordWebhookID, cfg.DiscordWebhookToken, logger)
		if err != nil {
			return err
		}
		notifier = append(notifier, discord)
		logger.Info("Discord ticket notifications enabled")
	}

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	verificationRepo := repositories.NewPostgresVerificationRepository(dbConn)
	resetRepo := repositories.NewPostgresPasswordResetRepository(dbConn)
	permissionRepo := repositories.NewPostgresPermissionRepository(dbConn)
	messageRepo := repositories.NewPostgresMessageRepository(dbConn)

	clock := utils.RealClock{}
	tokens := services.NewTokenService(services.TokenConfig{
		Secret:    []byte(cfg.JWTSecretKey),
		Issuer:    cfg.JWTIssuer,
		PlayerTTL: cfg.PlayerTokenTTL,
		AdminTTL:  cfg.AdminTokenTTL,
	}, clock)

	authService := services.NewAuthService(services.AuthDependencies{
		Players:       playerRepo,
		Admins:        adminRepo,
		Verifications: verificationRepo,
		Resets:        resetRepo,
		Tx:            repositories.NewTransactor(dbConn),
		Hasher:        utils.NewPasswordHasher(cfg.BcryptCost),
		Tokens:        tokens,
		Mailer:        mailer,
		Random:        utils.CryptoRandom{},
		Clock:         clock,
		Logger:        logger,
	}, services.AuthConfig{VerificationTTL: cfg.VerificationTTL, ResetTTL: cfg.ResetTTL})

	ruleService := services.NewContentService[models.Rule, *models.Rule](repositories.NewPostgresRuleRepository(dbConn))
	commandService := services.NewContentService[models.Command, *models.Command](repositories.NewPostgresCommandRepository(dbConn))
	banService := services.NewContentService[models.Ban, *models.Ban](repositories.NewPostgresBanRepository(dbConn))
	sponsorService := services.NewSponsorService(repositories.NewPostgresSponsorRepository(dbConn), uploader, logger)
	ticketService := services.NewTicketService(messageRepo, playerRepo, notifier, logger)
	playerService := services.NewPlayerService(playerRepo, permissionRepo, clock, cfg.CheckinReward, logger)
	statusService := services.NewStatusService(services.StatusConfig{
		APIBase:       cfg.StatusAPIBase,
		ServerAddress: cfg.StatusServerAddress,
	}, nil, clock, logger)
	dashboardService := services.NewDashboardService(services.DashboardSources{
		Players:  playerRepo,
		Messages: messageRepo,
		Rules:    ruleService,
		Commands: commandService,
		Bans:     banService,
		Sponsors: sponsorService,
	})
	logger.Info("services initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Rules:        handlers.NewContentHandler[models.Rule, models.RuleInput](ruleService, "rule"),
		Commands:     handlers.NewContentHandler[models.Command, models.CommandInput](commandService, "command"),
		Bans:         handlers.NewContentHandler[models.Ban, models.BanInput](banService, "ban"),
		Sponsors:     handlers.NewSponsorHandler(sponsorService),
		Tickets:      handlers.NewTicketHandler(ticketService),
		Player:       handlers.NewPlayerHandler(playerService),
		AdminPlayers: handlers.NewAdminPlayerHandler(playerService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Status:       handlers.NewStatusHandler(statusService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		Tokens:            tokens,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		AuthLimiter:       limiter,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Logger:            logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		<-hubDone
		logger.Info("server shutdown complete")
	}
	return nil
}

func newEmailSender(cfg *config.Config, logger *slog.Logger) (services.EmailSender, error) {
	switch cfg.EmailProvider {
	case "resend":
		return services.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom), nil
	case "smtp":
		return services.NewSMTPSender(services.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.EmailFrom,
		}), nil
	case "log":
		logger.Warn("no email provider configured, emails are only logged")
		return services.NewLogSender(logger), nil
	}
	return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
}
