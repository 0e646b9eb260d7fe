package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// CaseReader reads missing-person cases from the backend
type CaseReader interface {
	List(ctx context.Context, filter backend.CaseFilter) ([]domain.Case, error)
	Get(ctx context.Context, id int) (*domain.Case, error)
}

// AlertReader reads and acknowledges alerts stored in the backend
type AlertReader interface {
	List(ctx context.Context) ([]domain.Alert, error)
	Acknowledge(ctx context.Context, id int) error
}

// BackendHandler proxies case and alert reads to the FaceFind backend
type BackendHandler struct {
	cases  CaseReader
	alerts AlertReader
	logger *slog.Logger
}

func NewBackendHandler(cases CaseReader, alerts AlertReader, logger *slog.Logger) *BackendHandler {
	return &BackendHandler{
		cases:  cases,
		alerts: alerts,
		logger: logger,
	}
}

// ListCases GET /v1/cases?status=&q=
func (h *BackendHandler) ListCases(c *fiber.Ctx) error {
	filter := backend.CaseFilter{Query: strings.TrimSpace(c.Query("q"))}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		filter.Status = domain.ParseCaseStatus(raw)
		if filter.Status == domain.CaseStatusUnknown {
			return domain.ErrValidationFailed
		}
	}

	cases, err := h.cases.List(c.UserContext(), filter)
	if err != nil {
		return h.backendError(err, "list cases")
	}

	return c.JSON(fiber.Map{
		"cases": cases,
	})
}

// GetCase GET /v1/cases/:id
func (h *BackendHandler) GetCase(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return domain.ErrBadRequest
	}

	found, err := h.cases.Get(c.UserContext(), id)
	if err != nil {
		if backend.IsNotFound(err) {
			return domain.ErrCaseNotFound
		}
		return h.backendError(err, "get case")
	}

	return c.JSON(found)
}

// ListAlerts GET /v1/alerts?status=
func (h *BackendHandler) ListAlerts(c *fiber.Ctx) error {
	alerts, err := h.alerts.List(c.UserContext())
	if err != nil {
		return h.backendError(err, "list alerts")
	}

	if status := domain.AlertStatus(strings.TrimSpace(c.Query("status"))); status != "" {
		filtered := make([]domain.Alert, 0, len(alerts))
		for _, a := range alerts {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}

	return c.JSON(fiber.Map{
		"alerts": alerts,
	})
}

// AcknowledgeAlert POST /v1/alerts/:id/acknowledge
func (h *BackendHandler) AcknowledgeAlert(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return domain.ErrBadRequest
	}

	if err := h.alerts.Acknowledge(c.UserContext(), id); err != nil {
		return h.backendError(err, "acknowledge alert")
	}

	h.logger.Info("alert acknowledged", "alert_id", id, "user_id", userID(c))

	return c.JSON(fiber.Map{
		"id":     id,
		"status": domain.AlertStatusAcknowledged,
	})
}

func (h *BackendHandler) backendError(err error, op string) error {
	h.logger.Warn("backend request failed", "op", op, "error", err)
	if mapped := middleware.FromBackend(err); mapped != nil {
		return mapped
	}
	return domain.ErrBackendUnavailable.WithError(err)
}
