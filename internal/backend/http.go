package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
)

const maxBodySize = 8 << 20

var (
	ErrUnsuccessful = errors.New("backend reported failure")
	ErrNotFound     = errors.New("backend resource not found")
	ErrUnauthorized = errors.New("backend rejected credentials")
)

// StatusError is returned for unexpected HTTP status codes
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps well known statuses to sentinels
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return nil
	}
}

// envelope is the {success,data,error} wrapper most endpoints use.
// Some endpoints answer with bare JSON instead.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func doGetJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	return doJSON[T](ctx, c, http.MethodGet, endpoint, nil, http.StatusOK)
}

func doPostJSON[T any](ctx context.Context, c *Client, endpoint string, body any) (*T, error) {
	return doJSON[T](ctx, c, http.MethodPost, endpoint, body, http.StatusOK, http.StatusCreated)
}

func doPutJSON[T any](ctx context.Context, c *Client, endpoint string, body any) (*T, error) {
	return doJSON[T](ctx, c, http.MethodPut, endpoint, body, http.StatusOK)
}

// doJSON performs a request and decodes the response, unwrapping the envelope when present
func doJSON[T any](ctx context.Context, c *Client, method, endpoint string, body any, expected ...int) (*T, error) {
	raw, err := c.do(ctx, method, endpoint, body, expected...)
	if err != nil {
		return nil, err
	}

	payload, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return &result, nil
}

// doRaw performs a request and discards a successful body
func doRaw(ctx context.Context, c *Client, method, endpoint string, body any) error {
	raw, err := c.do(ctx, method, endpoint, body, http.StatusOK, http.StatusNoContent)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	_, err = unwrap(raw)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, expected ...int) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(endpoint), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	if !slices.Contains(expected, resp.StatusCode) {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: errorMessage(raw)}
	}
	return raw, nil
}

func unwrap(raw []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Success == nil {
		return raw, nil
	}
	if !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, msg)
	}
	if len(env.Data) == 0 {
		return []byte("null"), nil
	}
	return env.Data, nil
}

// errorMessage extracts the error text of an envelope, or the raw body
func errorMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	const maxLen = 512
	if len(raw) > maxLen {
		raw = raw[:maxLen]
	}
	return string(bytes.TrimSpace(raw))
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
