package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/VitalsKeeper/internal/service"
	"go.uber.org/zap"
)

// messageResponse is the body of every error reply.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeServiceError maps service sentinels to statuses. validationMsg is
// sent for service.ErrValidation. Anything unrecognised is logged and
// answered with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, validationMsg string) {
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity):
		writeMessage(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, service.ErrPasswordTooLong):
		writeMessage(w, http.StatusBadRequest, "Password must be at most 72 bytes")
	case errors.Is(err, service.ErrValidation):
		writeMessage(w, http.StatusBadRequest, validationMsg)
	default:
		orNop(logger).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers known routes called with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}
