// Package auth holds the operator session. Sessions are passed explicitly;
// there is no process-wide "current user".
package auth

import (
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// LocalsKey is the fiber locals key holding the request Session
const LocalsKey = "session"

// Session is an authenticated operator
type Session struct {
	UserID    int         `json:"user_id"`
	Email     string      `json:"email"`
	Name      string      `json:"name,omitempty"`
	Role      domain.Role `json:"role"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// NewSession creates a session for a user valid for ttl from now
func NewSession(user domain.User, now time.Time, ttl time.Duration) Session {
	return Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is no longer valid at now
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s Session) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

// Remaining returns how long the session stays valid, zero once expired
func (s Session) Remaining(now time.Time) time.Duration {
	if s.Expired(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
