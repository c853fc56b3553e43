package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/schoolsupply/orderdesk/internal/auth"
	"github.com/schoolsupply/orderdesk/internal/enum"
	"github.com/schoolsupply/orderdesk/internal/logger"
	"go.uber.org/zap"
)

type ctxKey struct{}

// Authenticate admits requests carrying a valid admin access token as
// "Authorization: Bearer <token>". The token's claims are available to later
// handlers through ClaimsFromContext.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in to use the admin desk"})
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, token)
			if err != nil {
				logger.L().Debug("admin token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired or invalid, sign in again"})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}

// RequireAdmin lets through only tokens issued to admin accounts. It must be
// mounted after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		switch {
		case claims == nil:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in to use the admin desk"})
		case claims.Role != enum.UserRoleAdmin:
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "only admins can manage orders and the catalog"})
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// ClaimsFromContext returns the claims stored by Authenticate, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(ctxKey{}).(*auth.Claims)
	return c
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Warn("write middleware response", zap.Error(err))
	}
}
