package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

const (
	defaultStatsWindow = 24 * time.Hour
	maxStatsWindow     = 365 * 24 * time.Hour
)

// SightingStore reads persisted sightings
type SightingStore interface {
	ListByCamera(ctx context.Context, cameraID string, limit int) ([]domain.Sighting, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type SightingHandler struct {
	store  SightingStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSightingHandler creates the handler; store is nil when persistence is disabled
func NewSightingHandler(store SightingStore, logger *slog.Logger) *SightingHandler {
	return &SightingHandler{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// List GET /v1/cameras/:id/sightings?limit=
func (h *SightingHandler) List(c *fiber.Ctx) error {
	cameraID := strings.TrimSpace(c.Params("id"))

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return domain.ErrValidationFailed.WithError(err)
		}
		limit = n
	}

	if h.store == nil {
		return c.JSON(fiber.Map{
			"sightings":   []domain.Sighting{},
			"persistence": false,
		})
	}

	sightings, err := h.store.ListByCamera(c.UserContext(), cameraID, limit)
	if err != nil {
		h.logger.Error("failed to list sightings", "camera_id", cameraID, "error", err)
		return domain.ErrInternal.WithError(err)
	}

	return c.JSON(fiber.Map{
		"sightings":   sightings,
		"persistence": true,
	})
}

type SightingStatsResponse struct {
	Window      string    `json:"window"`
	Since       time.Time `json:"since"`
	Count       int64     `json:"count"`
	Persistence bool      `json:"persistence"`
}

// Stats GET /v1/sightings/stats?window=24h
func (h *SightingHandler) Stats(c *fiber.Ctx) error {
	window := defaultStatsWindow
	if raw := c.Query("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 || d > maxStatsWindow {
			return domain.ErrValidationFailed.WithError(err)
		}
		window = d
	}

	since := h.now().Add(-window)
	resp := SightingStatsResponse{Window: window.String(), Since: since}

	if h.store == nil {
		return c.JSON(resp)
	}

	count, err := h.store.CountSince(c.UserContext(), since)
	if err != nil {
		h.logger.Error("failed to count sightings", "since", since, "error", err)
		return domain.ErrInternal.WithError(err)
	}

	resp.Count = count
	resp.Persistence = true
	return c.JSON(resp)
}
