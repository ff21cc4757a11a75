package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ronittamrakar/Xordon-sub011/internal/models"
	"github.com/ronittamrakar/Xordon-sub011/pkg/auth"
	"github.com/ronittamrakar/Xordon-sub011/pkg/config"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

func ownerCapture(t *testing.T) (http.Handler, *models.OwnerScope) {
	t.Helper()
	captured := &models.OwnerScope{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, ok := OwnerFromContext(r.Context())
		if !ok {
			t.Error("no owner scope on authenticated request context")
		}
		*captured = owner
		w.WriteHeader(http.StatusOK)
	})
	return handler, captured
}

func TestAuthBearerToken(t *testing.T) {
	log := logger.NewForTesting()
	jwtManager := auth.NewJWTManager("test-secret")
	userID := uuid.New()

	token, err := jwtManager.GenerateAccessToken(userID, nil, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	next, captured := ownerCapture(t)
	handler := Auth(jwtManager, config.AuthConfig{}, log)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/automations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.UserID != userID {
		t.Errorf("owner user = %s, want %s", captured.UserID, userID)
	}
}

func TestAuthRejectsBadTokens(t *testing.T) {
	log := logger.NewForTesting()
	jwtManager := auth.NewJWTManager("test-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(jwtManager, config.AuthConfig{}, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached without valid credentials")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/automations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthServiceAPIKey(t *testing.T) {
	log := logger.NewForTesting()
	jwtManager := auth.NewJWTManager("test-secret")
	serviceUser := uuid.New()

	key, err := auth.GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	hash, err := auth.HashAPIKey(key)
	if err != nil {
		t.Fatalf("HashAPIKey: %v", err)
	}

	cfg := config.AuthConfig{
		ServiceAPIKeyHash: hash,
		ServiceUserID:     serviceUser.String(),
	}

	next, captured := ownerCapture(t)
	handler := Auth(jwtManager, cfg, log)(next)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/call", nil)
	req.Header.Set("X-API-Key", key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.UserID != serviceUser {
		t.Errorf("owner user = %s, want service user %s", captured.UserID, serviceUser)
	}
	if captured.WorkspaceID != nil {
		t.Errorf("service key requests should have no workspace, got %s", captured.WorkspaceID)
	}

	t.Run("wrong key rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/call", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("key auth disabled when unconfigured", func(t *testing.T) {
		disabled := Auth(jwtManager, config.AuthConfig{}, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached with key auth disabled")
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/call", nil)
		req.Header.Set("X-API-Key", key)
		rec := httptest.NewRecorder()
		disabled.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
