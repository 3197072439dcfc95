package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/authsys-server/internal/api/http/respond"
	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

const readinessTimeout = 2 * time.Second

type healthResponse struct {
	Status string `json:"status"`
}

// Health serves liveness and readiness probes.
type Health struct {
	db     model.Pinger
	logger *logger.Logger
}

// NewHealth creates a new Health handler. db may be nil when no database backs the server.
func NewHealth(db model.Pinger, logger *logger.Logger) *Health {
	return &Health{db: db, logger: logger}
}

// Live always reports ok while the process serves requests.
func (h *Health) Live(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready reports 503 when the database is unreachable.
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("Health: database is not ready",
				"error", err.Error())
			respond.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}

	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
