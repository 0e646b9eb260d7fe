package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// NotificationReader reads and marks the backend notifications
type NotificationReader interface {
	List(ctx context.Context) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int) error
}

type NotificationHandler struct {
	notifications NotificationReader
	logger        *slog.Logger
}

func NewNotificationHandler(notifications NotificationReader, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// List GET /v1/notifications?unread=true
// Operators see their own notifications and broadcasts; admins see all.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	all, err := h.notifications.List(c.UserContext())
	if err != nil {
		return h.backendError(err, "list notifications")
	}

	session, _ := middleware.GetSession(c)
	unread := c.QueryBool("unread")

	out := make([]domain.Notification, 0, len(all))
	for _, n := range all {
		if !session.IsAdmin() && n.UserID != 0 && n.UserID != session.UserID {
			continue
		}
		if unread && n.Read {
			continue
		}
		out = append(out, n)
	}

	return c.JSON(fiber.Map{
		"notifications": out,
	})
}

// MarkRead POST /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return domain.ErrBadRequest
	}

	if err := h.notifications.MarkRead(c.UserContext(), id); err != nil {
		return h.backendError(err, "mark notification read")
	}

	return c.JSON(fiber.Map{
		"id":   id,
		"read": true,
	})
}

func (h *NotificationHandler) backendError(err error, op string) error {
	h.logger.Warn("backend request failed", "op", op, "error", err)
	if mapped := middleware.FromBackend(err); mapped != nil {
		return mapped
	}
	return domain.ErrBackendUnavailable.WithError(err)
}
