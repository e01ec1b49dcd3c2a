package rest

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/publica-project/publica/internal/transport"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	*transport.BaseHandler
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{
		BaseHandler: transport.NewBaseHandler(nil),
		db:          db,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	overall, dbState := "ok", "up"
	if err := h.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		overall, dbState = "degraded", "down"
		h.Logger.Error("health check failed", "error", err)
	}

	h.WriteJSON(w, status, map[string]string{
		"status":   overall,
		"database": dbState,
	})
}
