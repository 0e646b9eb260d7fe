package facefind

import "errors"

var (
	ErrBackendUnavailable = errors.New("facefind detection service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from facefind backend")
	ErrUnsuccessful       = errors.New("facefind backend reported failure")
	ErrMissingData        = errors.New("no data in facefind response")
	ErrEmptyImage         = errors.New("empty image payload")
)
