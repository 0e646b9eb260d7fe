package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return writeError(c, fiberErr.Code, "HTTP_ERROR", fiberErr.Message)
		}

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			if appErr.StatusCode >= 500 {
				logger.Error("internal error",
					slog.String("code", appErr.Code),
					slog.String("message", appErr.Message),
					slog.Any("error", appErr.Err),
					slog.String("path", c.Path()),
				)
			}
			return writeError(c, appErr.StatusCode, appErr.Code, appErr.Message)
		}

		// backend errors that reached here without being mapped by a handler
		if mapped := FromBackend(err); mapped != nil {
			logger.Warn("backend error",
				slog.String("code", mapped.Code),
				slog.Any("error", err),
				slog.String("path", c.Path()),
			)
			return writeError(c, mapped.StatusCode, mapped.Code, mapped.Message)
		}

		logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)

		return writeError(c, fiber.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message)
	}
}

// FromBackend maps a backend client error to the AppError shown to API callers,
// nil when err does not come from the backend client
func FromBackend(err error) *domain.AppError {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		return domain.ErrNotFound.WithError(err)
	case errors.Is(err, backend.ErrUnauthorized):
		return domain.ErrInvalidCredentials.WithError(err)
	case errors.Is(err, backend.ErrUnsuccessful):
		return domain.ErrBackendUnavailable.WithError(err)
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return domain.ErrBackendUnavailable.WithError(err)
	}
	return nil
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}
