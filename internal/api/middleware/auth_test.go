package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockTokenParser is a mock implementation of TokenParser
type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) Parse(token string) (auth.Session, error) {
	args := m.Called(token)
	return args.Get(0).(auth.Session), args.Error(1)
}

func errorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload.Error.Code
}

func TestAuth(t *testing.T) {
	session := auth.Session{UserID: 7, Email: "ana@facefind.org", Role: domain.RoleOperator}

	tests := []struct {
		name           string
		authHeader     string
		target         string
		setupMock      func(*MockTokenParser)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			target:     "/test",
			setupMock: func(m *MockTokenParser) {
				m.On("Parse", "good-token").Return(session, nil)
			},
			expectedStatus: 200,
		},
		{
			name:       "token in query",
			target:     "/test?token=good-token",
			setupMock: func(m *MockTokenParser) {
				m.On("Parse", "good-token").Return(session, nil)
			},
			expectedStatus: 200,
		},
		{
			name:           "missing Authorization header",
			target:         "/test",
			setupMock:      func(m *MockTokenParser) {},
			expectedStatus: 401,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			target:         "/test",
			setupMock:      func(m *MockTokenParser) {},
			expectedStatus: 401,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			target:     "/test",
			setupMock: func(m *MockTokenParser) {
				m.On("Parse", "bad-token").Return(auth.Session{}, auth.ErrInvalidToken)
			},
			expectedStatus: 401,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:       "expired token",
			authHeader: "bearer old-token",
			target:     "/test",
			setupMock: func(m *MockTokenParser) {
				m.On("Parse", "old-token").Return(auth.Session{}, auth.ErrExpiredToken)
			},
			expectedStatus: 401,
			expectedCode:   "SESSION_EXPIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(MockTokenParser)
			tt.setupMock(parser)

			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(discardLogger())})
			app.Use(Auth(parser))
			app.Get("/test", func(c *fiber.Ctx) error {
				got, err := GetSession(c)
				if err != nil {
					return err
				}
				return c.JSON(got)
			})

			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, resp.Body))
			} else {
				var got auth.Session
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
				assert.Equal(t, 7, got.UserID)
			}
			parser.AssertExpectations(t)
		})
	}
}

func TestAuth_WithIssuer(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	_, token, err := issuer.Issue(domain.User{ID: 3, Email: "admin@facefind.org", Role: domain.RoleAdmin})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(discardLogger())})
	app.Use(Auth(issuer))
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(discardLogger())})
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals(auth.LocalsKey, auth.Session{UserID: 1, Role: domain.RoleOperator})
		return c.Next()
	}, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/anonymous", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/anonymous", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
