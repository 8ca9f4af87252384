// Package http provides HTTP handlers for user registration, login,
// vitals submission and retrieval, and health checks.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/VitalsKeeper/internal/models"
	"go.uber.org/zap"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a user and returns its public summary.
	Register(ctx context.Context, name, email, password string) (models.UserSummary, error)
	// Login exchanges credentials for a signed session token.
	Login(ctx context.Context, email, password string) (string, models.UserSummary, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Logger records server-side failures. May be nil.
	Logger *zap.Logger
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Message string             `json:"message"`
	User    models.UserSummary `json:"user"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the user it belongs to.
type LoginResponse struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// Register handles POST /api/auth/register.
// It responds 201 with the created user, or 400 when the body is invalid
// or the email is already registered.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.Logger, err, "Name, email and password are required")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{Message: "User created", User: user})
}

// Login handles POST /api/auth/login.
// Unknown email and wrong password produce the same 400 reply.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tok, user, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.Logger, err, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: tok, User: user})
}
