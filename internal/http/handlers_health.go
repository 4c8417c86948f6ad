package httpx

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandlers exposes liveness and readiness endpoints.
type HealthHandlers struct {
	DB   *sql.DB
	Ping func(ctx context.Context) error
}

// Live reports process liveness. GET /health/live.
func (h *HealthHandlers) Live(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness, checking the database and any extra ping hook.
// GET /health/ready.
func (h *HealthHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"check":  "database",
			})
			return
		}
	}
	if h.Ping != nil {
		if err := h.Ping(ctx); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"check":  "session_store",
			})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
