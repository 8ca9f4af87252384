package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Storage modes reported by the health endpoint.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and the active storage backend.
type HealthHandler struct {
	// DB is pinged on every check; nil in memory mode.
	DB     Pinger
	Logger *zap.Logger
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Storage: StorageMemory})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		orNop(h.Logger).Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Storage: StoragePostgres})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Storage: StoragePostgres})
}
