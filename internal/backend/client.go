// Package backend is a typed client for the FaceFind backend REST API.
package backend

import (
	"net/http"
	"strings"
	"time"
)

// Config holds the backend connection settings
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// DefaultConfig returns sane defaults for a local backend
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:5000/api",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the backend CRUD surface. Services are grouped by resource.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	Auth          *AuthService
	Cases         *CaseService
	Cameras       *CameraService
	Alerts        *AlertService
	Users         *UserService
	Notifications *NotificationService
	Reports       *ReportService
}

// New creates a backend client
func New(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	c := &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
	c.Auth = &AuthService{c: c}
	c.Cases = &CaseService{c: c}
	c.Cameras = &CameraService{c: c}
	c.Alerts = &AlertService{c: c}
	c.Users = &UserService{c: c}
	c.Notifications = &NotificationService{c: c}
	c.Reports = &ReportService{c: c}
	return c
}

// WithToken returns a copy of the client authenticated with another bearer token
func (c *Client) WithToken(token string) *Client {
	return New(Config{
		BaseURL: c.baseURL,
		Token:   token,
		Timeout: c.httpClient.Timeout,
	})
}

func (c *Client) resolveURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
}
