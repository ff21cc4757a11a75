package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/auth"
	"github.com/ronittamrakar/Xordon-sub011/pkg/config"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

type contextKey string

const (
	claimsKey contextKey = "claims"
	ownerKey  contextKey = "owner"
)

// Auth authenticates the request and puts the caller's owner scope on the
// request context. Two schemes are accepted: a Bearer JWT for users, or the
// configured service API key via X-API-Key for internal callers.
func Auth(jwtManager *auth.JWTManager, authCfg config.AuthConfig, log *logger.Logger) func(next http.Handler) http.Handler {
	serviceUserID, err := uuid.Parse(authCfg.ServiceUserID)
	serviceKeyEnabled := authCfg.ServiceAPIKeyHash != "" && err == nil
	if authCfg.ServiceAPIKeyHash != "" && err != nil {
		log.Warn("service API key configured with invalid service user id, disabling key auth",
			logger.Err(err))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
				if !serviceKeyEnabled {
					respondError(w, http.StatusUnauthorized, "API key authentication is not enabled")
					return
				}
				if err := auth.VerifyAPIKey(apiKey, authCfg.ServiceAPIKeyHash); err != nil {
					log.Warn("invalid API key", logger.String("key_prefix", auth.KeyPrefix(apiKey)))
					respondError(w, http.StatusUnauthorized, "Invalid API key")
					return
				}

				owner := models.OwnerScope{UserID: serviceUserID}
				ctx := context.WithValue(r.Context(), ownerKey, owner)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := jwtManager.ValidateAccessToken(parts[1])
			if err != nil {
				log.Warn("invalid token", logger.Err(err))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			owner := models.OwnerScope{
				UserID:      claims.UserID,
				WorkspaceID: claims.WorkspaceID,
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, ownerKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithOwner returns a context carrying the given owner scope
func ContextWithOwner(ctx context.Context, owner models.OwnerScope) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// OwnerFromContext returns the authenticated caller's owner scope
func OwnerFromContext(ctx context.Context) (models.OwnerScope, bool) {
	owner, ok := ctx.Value(ownerKey).(models.OwnerScope)
	return owner, ok
}

// ClaimsFromContext returns the authenticated caller's claims. Service API
// key requests carry no claims.
func ClaimsFromContext(ctx context.Context) (*auth.JWTClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.JWTClaims)
	return claims, ok
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
