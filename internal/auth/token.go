package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

var (
	// ErrInvalidToken is returned when token validation fails
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when token is expired
	ErrExpiredToken = errors.New("token expired")
)

const issuer = "facefind"

type claims struct {
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and parses session tokens (HS256)
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer. ttl is the lifetime of new sessions.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued sessions
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates a session for user and returns it with its signed token
func (i *Issuer) Issue(user domain.User) (Session, string, error) {
	session := NewSession(user, i.now().Truncate(time.Second), i.ttl)

	token, err := i.Sign(session)
	if err != nil {
		return Session{}, "", err
	}
	return session, token, nil
}

// Sign encodes an existing session
func (i *Issuer) Sign(session Session) (string, error) {
	c := claims{
		UserID: session.UserID,
		Email:  session.Email,
		Name:   session.Name,
		Role:   string(session.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(session.UserID),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			NotBefore: jwt.NewNumericDate(session.IssuedAt),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// Parse validates a token and returns its session
func (i *Issuer) Parse(token string) (Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrExpiredToken
		}
		return Session{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	s := Session{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.Name,
		Role:   domain.ParseRole(c.Role),
	}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}
