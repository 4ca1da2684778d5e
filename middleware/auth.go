package middleware

import (
	"net/http"
	"strings"

	"github.com/eulark/eulark-site/services"
)

// Authenticate verifies the bearer token and stores its claims in the request
// context. A missing token is answered with 403, an invalid one with 401.
// Websocket upgrades may pass the token as ?token= since browsers cannot set
// headers on them.
func Authenticate(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeError(w, http.StatusForbidden, services.ErrUnauthenticated.Error())
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, services.ErrInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusForbidden, services.ErrUnauthenticated.Error())
			return
		}
		if !claims.IsAdmin {
			writeError(w, http.StatusForbidden, services.ErrForbidden.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePlayer rejects admin tokens on player-scoped routes.
func RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := PlayerIDFromContext(r.Context()); err != nil {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return strings.TrimSpace(r.URL.Query().Get("token"))
	}
	return ""
}
