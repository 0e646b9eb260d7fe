package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facefind/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

const testAdminID = 1

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp returns an app whose requests carry an admin session
func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(discardLogger())})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.LocalsKey, auth.Session{UserID: testAdminID, Role: domain.RoleAdmin})
		return c.Next()
	})
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type errorBody struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}
