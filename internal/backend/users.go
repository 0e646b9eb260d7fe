package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// UserService wraps /usuarios
type UserService struct {
	c *Client
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	dtos, err := doGetJSON[[]userDTO](ctx, s.c, "usuarios")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return mapSlice(*dtos, userDTO.toDomain), nil
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	if input.Rol == "" {
		input.Rol = string(domain.RoleOperator)
	}
	dto, err := doPostJSON[userDTO](ctx, s.c, "usuarios", input)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u := dto.toDomain()
	return &u, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := doRaw(ctx, s.c, http.MethodDelete, "usuarios/"+strconv.Itoa(id), nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// NotificationService wraps /notificaciones
type NotificationService struct {
	c *Client
}

func (s *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	dtos, err := doGetJSON[[]notificationDTO](ctx, s.c, "notificaciones")
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return mapSlice(*dtos, notificationDTO.toDomain), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id int) error {
	if err := doRaw(ctx, s.c, http.MethodPut, "notificaciones/"+strconv.Itoa(id)+"/leida", nil); err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return nil
}
