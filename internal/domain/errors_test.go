package domain

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrCameraNotFound,
			expected: "Camera not found",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	appErr := &AppError{
		Code:       "TEST",
		Message:    "test",
		StatusCode: 500,
		Err:        underlying,
	}

	if got := appErr.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	// Test with nil error
	appErrNoWrap := ErrCameraNotFound
	if got := appErrNoWrap.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("db connection failed")
	newErr := ErrInternal.WithError(underlying)

	if newErr.Code != ErrInternal.Code {
		t.Errorf("Code = %v, want %v", newErr.Code, ErrInternal.Code)
	}

	if newErr.StatusCode != ErrInternal.StatusCode {
		t.Errorf("StatusCode = %v, want %v", newErr.StatusCode, ErrInternal.StatusCode)
	}

	if newErr.Err != underlying {
		t.Errorf("Err = %v, want %v", newErr.Err, underlying)
	}

	// Check errors.Is still works
	if !errors.Is(newErr, underlying) {
		t.Errorf("errors.Is should return true for wrapped error")
	}
}

func TestErrorsIs(t *testing.T) {
	// Test that errors.As works with AppError
	err := ErrCameraNotFound.WithError(errors.New("not in backend"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Errorf("errors.As should match AppError")
	}

	if appErr.Code != "CAMERA_NOT_FOUND" {
		t.Errorf("Code = %v, want CAMERA_NOT_FOUND", appErr.Code)
	}

	if !errors.Is(err, ErrCameraNotFound) {
		t.Errorf("errors.Is should match a WithError copy by code")
	}

	if errors.Is(err, ErrCaseNotFound) {
		t.Errorf("errors.Is should not match a different code")
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *AppError
		code       string
		statusCode int
	}{
		{ErrInternal, "INTERNAL_ERROR", 500},
		{ErrBadRequest, "BAD_REQUEST", 400},
		{ErrUnauthorized, "UNAUTHORIZED", 401},
		{ErrSessionExpired, "SESSION_EXPIRED", 401},
		{ErrInvalidCredentials, "INVALID_CREDENTIALS", 401},
		{ErrForbidden, "FORBIDDEN", 403},
		{ErrNotFound, "NOT_FOUND", 404},
		{ErrCameraNotFound, "CAMERA_NOT_FOUND", 404},
		{ErrCaseNotFound, "CASE_NOT_FOUND", 404},
		{ErrCameraNotRegistered, "CAMERA_NOT_REGISTERED", 409},
		{ErrSourceDisconnected, "SOURCE_DISCONNECTED", 409},
		{ErrInvalidInterval, "INVALID_INTERVAL", 422},
		{ErrRateLimitExceeded, "RATE_LIMIT_EXCEEDED", 429},
		{ErrValidationFailed, "VALIDATION_FAILED", 422},
		{ErrBackendUnavailable, "BACKEND_UNAVAILABLE", 502},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %v, want %v", tt.err.StatusCode, tt.statusCode)
			}
		})
	}
}
