package handlers

import (
	"context"
	"net/http"
	"time"

	"brandae-leads-api/internal/util"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	DB Pinger
}

// ServeHTTP godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			util.WriteJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "unreachable"})
			return
		}
	}
	util.WriteJSON(w, map[string]string{"status": "ok"})
}
