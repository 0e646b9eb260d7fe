package admin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// CaseWriter creates, edits and removes cases in the backend
type CaseWriter interface {
	Create(ctx context.Context, input backend.CaseInput) (*domain.Case, error)
	Update(ctx context.Context, id int, input backend.CaseInput) (*domain.Case, error)
	Delete(ctx context.Context, id int) error
}

type CasesHandler struct {
	cases  CaseWriter
	logger *slog.Logger
}

func NewCasesHandler(cases CaseWriter, logger *slog.Logger) *CasesHandler {
	return &CasesHandler{
		cases:  cases,
		logger: logger,
	}
}

type CaseRequest struct {
	PersonName   string `json:"person_name"`
	Age          int    `json:"age"`
	Description  string `json:"description"`
	LastLocation string `json:"last_location"`
	PhotoURL     string `json:"photo_url"`
	Status       string `json:"status"`
}

func (r CaseRequest) input() (backend.CaseInput, error) {
	name := strings.TrimSpace(r.PersonName)
	if name == "" || r.Age < 0 {
		return backend.CaseInput{}, domain.ErrValidationFailed
	}

	in := backend.CaseInput{
		Nombre:          name,
		Edad:            r.Age,
		Descripcion:     strings.TrimSpace(r.Description),
		UltimaUbicacion: strings.TrimSpace(r.LastLocation),
		FotoURL:         strings.TrimSpace(r.PhotoURL),
	}
	if raw := strings.TrimSpace(r.Status); raw != "" {
		in.Estado = backend.CaseEstado(domain.ParseCaseStatus(raw))
		if in.Estado == "" {
			return backend.CaseInput{}, domain.ErrValidationFailed
		}
	}
	return in, nil
}

// Create POST /v1/admin/cases
func (h *CasesHandler) Create(c *fiber.Ctx) error {
	var req CaseRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	input, err := req.input()
	if err != nil {
		return err
	}

	created, err := h.cases.Create(c.UserContext(), input)
	if err != nil {
		return backendError(h.logger, err, "create case", nil)
	}

	h.logger.Info("case created", "case_id", created.ID, "admin_id", adminID(c))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update PUT /v1/admin/cases/:id
func (h *CasesHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req CaseRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	input, err := req.input()
	if err != nil {
		return err
	}

	updated, err := h.cases.Update(c.UserContext(), id, input)
	if err != nil {
		return backendError(h.logger, err, "update case", domain.ErrCaseNotFound)
	}

	h.logger.Info("case updated", "case_id", id, "status", updated.Status, "admin_id", adminID(c))
	return c.JSON(updated)
}

// Delete DELETE /v1/admin/cases/:id
func (h *CasesHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.cases.Delete(c.UserContext(), id); err != nil {
		return backendError(h.logger, err, "delete case", domain.ErrCaseNotFound)
	}

	h.logger.Info("case deleted", "case_id", id, "admin_id", adminID(c))
	return c.SendStatus(fiber.StatusNoContent)
}
