package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Authenticator checks operator credentials against the backend
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
}

// SessionIssuer creates local session tokens
type SessionIssuer interface {
	Issue(user domain.User) (auth.Session, string, error)
}

type AuthHandler struct {
	authenticator Authenticator
	issuer        SessionIssuer
	logger        *slog.Logger
}

func NewAuthHandler(authenticator Authenticator, issuer SessionIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		issuer:        issuer,
		logger:        logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// Login POST /v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return domain.ErrValidationFailed.WithError(errors.New("email and password are required"))
	}

	result, err := h.authenticator.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.logger.Info("login rejected", "email", req.Email)
			return domain.ErrInvalidCredentials
		}
		h.logger.Error("login failed", "email", req.Email, "error", err)
		return domain.ErrBackendUnavailable.WithError(err)
	}

	session, token, err := h.issuer.Issue(result.User)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	h.logger.Info("operator logged in",
		slog.Int("user_id", session.UserID),
		slog.String("role", string(session.Role)),
	)

	return c.JSON(LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      result.User,
	})
}

// Me GET /v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, err := middleware.GetSession(c)
	if err != nil {
		return err
	}
	return c.JSON(session)
}
