package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so errors.Is works on WithError copies
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing session token",
		StatusCode: 401,
	}

	ErrSessionExpired = &AppError{
		Code:       "SESSION_EXPIRED",
		Message:    "Session has expired, please log in again",
		StatusCode: 401,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid email or password",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Access denied",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrCameraNotFound = &AppError{
		Code:       "CAMERA_NOT_FOUND",
		Message:    "Camera not found",
		StatusCode: 404,
	}

	ErrCaseNotFound = &AppError{
		Code:       "CASE_NOT_FOUND",
		Message:    "Case not found",
		StatusCode: 404,
	}

	ErrCameraNotRegistered = &AppError{
		Code:       "CAMERA_NOT_REGISTERED",
		Message:    "Camera has no frame source registered",
		StatusCode: 409,
	}

	ErrSourceDisconnected = &AppError{
		Code:       "SOURCE_DISCONNECTED",
		Message:    "Camera source is not connected",
		StatusCode: 409,
	}

	ErrInvalidInterval = &AppError{
		Code:       "INVALID_INTERVAL",
		Message:    "Interval must be between 1 and 3600 seconds",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrBackendUnavailable = &AppError{
		Code:       "BACKEND_UNAVAILABLE",
		Message:    "FaceFind backend is unavailable",
		StatusCode: 502,
	}
)
