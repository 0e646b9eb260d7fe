package admin

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// backendError maps a backend failure, using notFound for 404 answers
func backendError(logger *slog.Logger, err error, op string, notFound *domain.AppError) error {
	if notFound != nil && backend.IsNotFound(err) {
		return notFound.WithError(err)
	}
	logger.Warn("backend request failed", "op", op, "error", err)
	if mapped := middleware.FromBackend(err); mapped != nil {
		return mapped
	}
	return domain.ErrBackendUnavailable.WithError(err)
}

func paramID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.ErrBadRequest
	}
	return id, nil
}

func adminID(c *fiber.Ctx) int {
	session, err := middleware.GetSession(c)
	if err != nil {
		return 0
	}
	return session.UserID
}
