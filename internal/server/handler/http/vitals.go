package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/middleware"
	"github.com/atinyakov/VitalsKeeper/internal/models"
	"github.com/atinyakov/VitalsKeeper/internal/service"
	"go.uber.org/zap"
)

// VitalsService defines the interface for vitals operations
// required by the VitalsHandler.
type VitalsService interface {
	// Submit stores a reading for ownerID.
	Submit(ctx context.Context, ownerID string, fields models.VitalFields) (*models.Reading, error)
	// List returns ownerID's readings, oldest first; a positive window
	// limits the result to the trailing period.
	List(ctx context.Context, ownerID string, window time.Duration) ([]models.Reading, error)
}

// VitalsHandler handles HTTP requests for vitals readings.
// Both endpoints expect BearerAuth to have run.
type VitalsHandler struct {
	VitalsService VitalsService
	Logger        *zap.Logger
}

// List handles GET /vitals with an optional ?range= filter ("24h", "7d").
func (h *VitalsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	window, err := service.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid range")
		return
	}

	readings, err := h.VitalsService.List(ctx, userID, window)
	if err != nil {
		writeServiceError(w, r, h.Logger, err, "Invalid range")
		return
	}

	writeJSON(w, http.StatusOK, readings)
}

// Submit handles POST /vitals. Every field of the body is optional.
func (h *VitalsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "No token provided")
		return
	}

	// an empty body is an all-null reading
	var fields models.VitalFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rd, err := h.VitalsService.Submit(ctx, userID, fields)
	if err != nil {
		writeServiceError(w, r, h.Logger, err, "Invalid reading")
		return
	}

	writeJSON(w, http.StatusCreated, rd)
}
