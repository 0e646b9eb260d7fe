package rekognition

import "errors"

var (
	// ErrCollectionNotFound indicates that the configured collection does not exist
	ErrCollectionNotFound = errors.New("rekognition collection not found")

	// ErrInvalidCredentials indicates AWS rejected the credentials or permissions
	ErrInvalidCredentials = errors.New("invalid AWS credentials")

	// ErrInvalidImage indicates the frame is empty, too small or too large
	ErrInvalidImage = errors.New("invalid image for rekognition")

	// ErrThrottled indicates AWS throttled the request
	ErrThrottled = errors.New("rekognition request throttled")
)
