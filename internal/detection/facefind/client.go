package facefind

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize bounds the body read from the backend
const maxResponseSize = 4 * 1024 * 1024 // 4MB

// Config holds the configuration for the FaceFind detection client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Token      string
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults.
// RetryCount is zero because the recognition loop retries on its next tick.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5000/api",
		Timeout:    30 * time.Second,
		RetryCount: 0,
	}
}

// Client is the HTTP client for the FaceFind detection endpoint
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new FaceFind client
func NewClient(config Config) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("facefind returned status %d: %s", e.StatusCode, e.Body)
}

// DetectFaces calls POST /detection/detect-faces with a JPEG data URI
func (c *Client) DetectFaces(ctx context.Context, imageDataURI string) (*DetectResponse, error) {
	if imageDataURI == "" {
		return nil, ErrEmptyImage
	}

	req := DetectRequest{Image: imageDataURI}

	var resp DetectResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, "/detection/detect-faces", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// maxBackoff is the maximum backoff duration for retries
const maxBackoff = 30 * time.Second

// calculateBackoff returns 1s, 2s, 4s, 8s... capped at maxBackoff
func calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	seconds := 1
	for i := 1; i < attempt && i < 6; i++ {
		seconds *= 2
	}
	backoff := time.Duration(seconds) * time.Second
	if backoff > maxBackoff {
		return maxBackoff
	}
	return backoff
}

func (c *Client) doRequestWithRetry(ctx context.Context, method, path string, body, result any) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		lastErr = c.doRequest(ctx, method, path, body, result)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// 4xx is the caller's fault, retrying won't help
		if isClientError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w: %w", ErrBackendUnavailable, lastErr)
}

func isClientError(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
	}
	return false
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	return nil
}
