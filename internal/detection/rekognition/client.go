package rekognition

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/smithy-go"
)

const (
	errCodeAccessDenied       = "AccessDeniedException"
	errCodeResourceNotFound   = "ResourceNotFoundException"
	errCodeInvalidParameter   = "InvalidParameterException"
	errCodeThroughputExceeded = "ProvisionedThroughputExceededException"
	errCodeThrottling         = "ThrottlingException"
)

// API is the subset of the Rekognition client used by the detector
type API interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
	SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
}

// NewClient creates a Rekognition client using the AWS default credential chain
func NewClient(ctx context.Context, cfg Config) (API, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return rekognition.NewFromConfig(awsCfg), nil
}

// mapError translates Rekognition API error codes into package errors
func mapError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		case errCodeResourceNotFound:
			return fmt.Errorf("%s: %w", op, ErrCollectionNotFound)
		case errCodeThroughputExceeded, errCodeThrottling:
			return fmt.Errorf("%s: %w", op, ErrThrottled)
		case errCodeInvalidParameter:
			return fmt.Errorf("%s: %w: %s", op, ErrInvalidImage, apiErr.ErrorMessage())
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isNoFace reports whether a search failed because the crop held no usable face
func isNoFace(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == errCodeInvalidParameter
}
