package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// AuthService wraps /auth
type AuthService struct {
	c *Client
}

// LoginResult is the backend answer to a successful login
type LoginResult struct {
	Token string
	User  domain.User
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string  `json:"token"`
	AccessToken string  `json:"access_token"`
	User        userDTO `json:"user"`
	Usuario     userDTO `json:"usuario"`
}

// Login authenticates against the backend. Wrong credentials return ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("login: %w", ErrUnauthorized)
	}

	resp, err := doPostJSON[loginResponse](ctx, s.c, "auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, ErrUnsuccessful) {
			return nil, fmt.Errorf("login: %w: %w", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	user := resp.User
	if user.ID == 0 && user.Email == "" {
		user = resp.Usuario
	}
	if user.Email == "" {
		user.Email = email
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}

	return &LoginResult{Token: token, User: user.toDomain()}, nil
}
