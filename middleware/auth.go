package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"go-courier/models"
	"go-courier/repository"
	"go-courier/utils"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// TokenVerifier checks a session token
type TokenVerifier interface {
	Verify(token string) (*utils.Identity, error)
}

// RoleLookup finds the stored role of a user
type RoleLookup interface {
	GetRole(ctx context.Context, email string) (*models.UserRole, error)
}

// IdentityFrom returns the identity attached by AuthMiddleware
func IdentityFrom(ctx context.Context) (*utils.Identity, bool) {
	identity, ok := ctx.Value(UserContextKey).(*utils.Identity)
	return identity, ok
}

// AuthMiddleware verifies the bearer token and attaches the caller's identity to the context
func AuthMiddleware(tokens TokenVerifier, log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized Access")
				return
			}

			identity, err := tokens.Verify(tokenStr)
			if err != nil {
				log.Debug("token rejected", "path", r.URL.Path, "error", err)
				writeMessage(w, http.StatusUnauthorized, "Unauthorized Access")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware lets the request through only when the stored role of the caller is Admin.
// It must run after AuthMiddleware.
func AdminMiddleware(users RoleLookup, log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized Access")
				return
			}

			role, err := users.GetRole(r.Context(), identity.Email)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				log.Error("admin check failed", "email", identity.Email, "error", err)
				writeMessage(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if role == nil || role.Role != models.RoleAdmin {
				writeMessage(w, http.StatusForbidden, "Forbidden Access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken reads "Authorization: Bearer <token>". Browsers can not set headers on
// websocket upgrades, so those may pass the token as ?token= instead.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if websocket.IsWebSocketUpgrade(r) {
			if t := r.URL.Query().Get("token"); t != "" {
				return t, true
			}
		}
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
