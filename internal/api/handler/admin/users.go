package admin

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

const minPasswordLength = 8

// UserStore manages FaceFind accounts in the backend
type UserStore interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, input backend.UserInput) (*domain.User, error)
	Delete(ctx context.Context, id int) error
}

type UsersHandler struct {
	users  UserStore
	logger *slog.Logger
}

func NewUsersHandler(users UserStore, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		users:  users,
		logger: logger,
	}
}

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// List GET /v1/admin/users
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return backendError(h.logger, err, "list users", nil)
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}

// Create POST /v1/admin/users
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}
	if len(req.Password) < minPasswordLength {
		return domain.ErrValidationFailed
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	switch role {
	case "":
		role = domain.RoleOperator
	case domain.RoleAdmin, domain.RoleOperator:
	default:
		return domain.ErrValidationFailed
	}

	created, err := h.users.Create(c.UserContext(), backend.UserInput{
		Nombre:   strings.TrimSpace(req.Name),
		Email:    addr.Address,
		Password: req.Password,
		Rol:      string(role),
	})
	if err != nil {
		return backendError(h.logger, err, "create user", nil)
	}

	h.logger.Info("user created", "user_id", created.ID, "role", created.Role, "admin_id", adminID(c))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Delete DELETE /v1/admin/users/:id
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	// an admin cannot lock themselves out
	if id == adminID(c) {
		return domain.ErrValidationFailed
	}

	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return backendError(h.logger, err, "delete user", domain.ErrNotFound)
	}

	h.logger.Info("user deleted", "user_id", id, "admin_id", adminID(c))
	return c.SendStatus(fiber.StatusNoContent)
}
