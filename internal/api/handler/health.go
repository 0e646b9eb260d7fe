package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/database"
)

// Version is reported by /health
const Version = "0.1.0"

// RunningCounter reports how many recognition sessions are running
type RunningCounter interface {
	Running() int
}

type HealthHandler struct {
	db       database.Pinger
	sessions RunningCounter
	logger   *slog.Logger
}

// NewHealthHandler creates the health handler. db may be nil when persistence is off.
func NewHealthHandler(db database.Pinger, sessions RunningCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		sessions: sessions,
		logger:   logger,
	}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Sessions *int              `json:"running_sessions,omitempty"`
	Checks   map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:  "ok",
		Version: Version,
	}
	if h.sessions != nil {
		n := h.sessions.Running()
		resp.Sessions = &n
	}
	return c.JSON(resp)
}

// Ready fails with 503 while a configured database is unreachable
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := map[string]string{"database": "disabled"}

	if h.db != nil {
		if err := database.HealthCheck(context.Background(), h.db); err != nil {
			h.logger.Warn("readiness check failed", "error", err)
			checks["database"] = "unavailable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status: "unavailable",
				Checks: checks,
			})
		}
		checks["database"] = "ok"
	}

	return c.JSON(HealthResponse{
		Status: "ready",
		Checks: checks,
	})
}
