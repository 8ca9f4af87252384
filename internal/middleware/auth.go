// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/VitalsKeeper/internal/token"
	"go.uber.org/zap"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier validates a bearer token and returns the user id it carries.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// BearerAuth is a middleware that enforces session-token authentication.
//
// It reads the "Authorization: Bearer <token>" header, verifies the token
// and stores the user id in the request context, so it can be used
// downstream as the authenticated owner. Any failure ends the request
// with 401 and a JSON {"message"} body.
func BearerAuth(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r.Header.Get("Authorization"))
			if err == nil {
				var userID string
				userID, err = verifier.Verify(raw)
				if err == nil {
					ctx := context.WithValue(r.Context(), userKey, userID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			logger.Debug("rejected request",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			unauthorized(w, err)
		})
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", token.ErrMissingToken
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok {
		if strings.EqualFold(header, "bearer") {
			return "", token.ErrMissingToken
		}
		return "", token.ErrInvalidToken
	}
	if !strings.EqualFold(scheme, "bearer") {
		return "", token.ErrInvalidToken
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", token.ErrMissingToken
	}
	return raw, nil
}

func unauthorized(w http.ResponseWriter, err error) {
	msg := "Invalid token"
	switch {
	case errors.Is(err, token.ErrMissingToken):
		msg = "No token provided"
	case errors.Is(err, token.ErrExpiredToken):
		msg = "Token expired"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// GetUserIDFromContext extracts the authenticated user id
// from the request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithUserID returns a copy of ctx carrying userID, as BearerAuth does.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}
