package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/eulark/eulark-site/services"
)

type contextKey string

const (
	claimsContextKey contextKey = "claims"
	loggerContextKey contextKey = "logger"
)

// WithLogger stores a request-scoped logger on ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// LoggerFromContext returns the logger set by RequestLogger, or slog.Default
// for requests that did not pass through it.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithClaims stores verified token claims on ctx.
func WithClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*services.Claims)
	return claims, ok && claims != nil
}

// PlayerIDFromContext returns the subject of a player token. Admin tokens
// yield services.ErrForbidden.
func PlayerIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, services.ErrUnauthenticated
	}
	if claims.IsAdmin {
		return 0, services.ErrForbidden
	}
	return claims.ID, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
