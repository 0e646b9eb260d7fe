package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// TokenParser validates a session token
type TokenParser interface {
	Parse(token string) (auth.Session, error)
}

// Auth requires a valid session token and stores the Session in locals.
// The token comes from the Authorization header or, for websocket
// handshakes where browsers cannot set headers, the "token" query param.
func Auth(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			return domain.ErrUnauthorized
		}

		session, err := parser.Parse(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return domain.ErrSessionExpired
			}
			return domain.ErrUnauthorized
		}

		c.Locals(auth.LocalsKey, session)

		return c.Next()
	}
}

// RequireAdmin rejects sessions without the admin role; Auth must run first
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := GetSession(c)
		if err != nil {
			return err
		}
		if !session.IsAdmin() {
			return domain.ErrForbidden
		}
		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetSession retrieves the session stored by Auth
func GetSession(c *fiber.Ctx) (auth.Session, error) {
	session, ok := c.Locals(auth.LocalsKey).(auth.Session)
	if !ok {
		return auth.Session{}, domain.ErrUnauthorized
	}
	return session, nil
}
