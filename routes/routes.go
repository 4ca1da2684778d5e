package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/eulark/eulark-site/docs"
	"github.com/eulark/eulark-site/handlers"
	"github.com/eulark/eulark-site/middleware"
	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/services"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Rules        *handlers.ContentHandler[models.Rule, models.RuleInput]
	Commands     *handlers.ContentHandler[models.Command, models.CommandInput]
	Bans         *handlers.ContentHandler[models.Ban, models.BanInput]
	Sponsors     *handlers.SponsorHandler
	Tickets      *handlers.TicketHandler
	Player       *handlers.PlayerHandler
	AdminPlayers *handlers.AdminPlayerHandler
	Dashboard    *handlers.DashboardHandler
	Status       *handlers.StatusHandler
	WebSocket    *handlers.WebSocketHandler
}

type Options struct {
	Tokens         services.TokenService
	AllowedOrigins []string
	// AuthLimiter may be nil, in which case auth routes are not rate limited.
	AuthLimiter *middleware.RateLimiter
	// TrustProxyHeaders rewrites RemoteAddr from X-Real-IP/X-Forwarded-For.
	// Leave it off unless a reverse proxy sets those headers, since the auth
	// rate limiter keys on RemoteAddr.
	TrustProxyHeaders bool
	Logger            *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	if opts.TrustProxyHeaders {
		router.Use(chiMiddleware.RealIP)
	}
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.Tokens)

	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(opts.AuthLimiter.Middleware)
			r.Post("/register", h.Auth.Register)
			r.Post("/verify-email", h.Auth.VerifyEmail)
			r.Post("/login", h.Auth.Login)
			r.Post("/admin/login", h.Auth.AdminLogin)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password", h.Auth.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(15 * time.Second))
			r.Get("/rules", h.Rules.List)
			r.Get("/commands", h.Commands.List)
			r.Get("/bans", h.Bans.List)
			r.Get("/sponsors", h.Sponsors.List)
			r.Get("/server-status", h.Status.ServerStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequirePlayer)
			r.Post("/contact", h.Tickets.Submit)
			r.Get("/player/status", h.Player.Status)
			r.Post("/player/checkin", h.Player.Checkin)
			r.Get("/player/check-permission", h.Player.CheckPermission)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate, middleware.RequireAdmin)

			r.Get("/dashboard", h.Dashboard.Stats)

			r.Get("/messages", h.Tickets.List)
			r.Patch("/messages/{id}", h.Tickets.UpdateStatus)
			r.Delete("/messages/{id}", h.Tickets.Delete)

			r.Get("/players", h.AdminPlayers.ListPlayers)
			r.Delete("/players/{id}", h.AdminPlayers.DeletePlayer)

			mountContent(r, "/rules", h.Rules.Create, h.Rules.Update, h.Rules.Delete)
			mountContent(r, "/commands", h.Commands.Create, h.Commands.Update, h.Commands.Delete)
			mountContent(r, "/bans", h.Bans.Create, h.Bans.Update, h.Bans.Delete)
			mountContent(r, "/sponsors", h.Sponsors.Create, h.Sponsors.Update, h.Sponsors.Delete)
			r.Post("/sponsors/{id}/logo", h.Sponsors.UploadLogo)
		})
	})

	router.With(authenticate, middleware.RequireAdmin).Get("/ws/admin/tickets", h.WebSocket.AdminTickets)
}

func mountContent(r chi.Router, path string, create, update, remove http.HandlerFunc) {
	r.Post(path, create)
	r.Patch(path+"/{id}", update)
	r.Delete(path+"/{id}", remove)
}
