package detection

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/facefind/internal/audit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/config"
	"github.com/saturnino-fabrica-de-software/facefind/internal/detection/facefind"
	"github.com/saturnino-fabrica-de-software/facefind/internal/detection/mock"
	"github.com/saturnino-fabrica-de-software/facefind/internal/detection/rekognition"
)

// Type defines supported detector types
type Type string

const (
	// TypeFaceFind posts frames to the FaceFind backend (default)
	TypeFaceFind Type = "facefind"
	// TypeRekognition uses AWS Rekognition with a collection of case photos
	TypeRekognition Type = "rekognition"
	// TypeMock returns a fixed face, for local development
	TypeMock Type = "mock"
)

var (
	_ Detector = (*facefind.Detector)(nil)
	_ Detector = (*rekognition.Detector)(nil)
	_ Detector = (*mock.Detector)(nil)
)

// New creates a Detector based on configuration
//
// Environment variables:
//   - DETECTOR: "facefind", "rekognition" or "mock" (default: "facefind")
//   - BACKEND_URL / BACKEND_TOKEN: FaceFind backend used by "facefind"
//   - AWS_REGION, REKOGNITION_COLLECTION: used by "rekognition"
func New(ctx context.Context, cfg *config.Config, auditLogger audit.Logger) (Detector, error) {
	switch Type(cfg.Detector) {
	case TypeFaceFind, "":
		return newFaceFind(cfg), nil

	case TypeRekognition:
		return newRekognition(ctx, cfg, auditLogger)

	case TypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s, %s)",
			cfg.Detector, TypeFaceFind, TypeRekognition, TypeMock)
	}
}

func newFaceFind(cfg *config.Config) *facefind.Detector {
	ffConfig := facefind.DefaultConfig()
	if cfg.BackendURL != "" {
		ffConfig.BaseURL = cfg.BackendURL
	}
	if cfg.HTTPTimeout > 0 {
		ffConfig.Timeout = cfg.HTTPTimeout
	}
	ffConfig.Token = cfg.BackendToken

	return facefind.NewDetector(ffConfig)
}

func newRekognition(ctx context.Context, cfg *config.Config, auditLogger audit.Logger) (*rekognition.Detector, error) {
	rekogConfig := rekognition.DefaultConfig()
	rekogConfig.Region = cfg.AWSRegion
	if cfg.RekognitionCollection != "" {
		rekogConfig.CollectionID = cfg.RekognitionCollection
	}

	var opts []rekognition.Option
	if auditLogger != nil {
		opts = append(opts, rekognition.WithAuditLogger(auditLogger))
	}

	d, err := rekognition.New(ctx, rekogConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("create rekognition detector: %w", err)
	}
	return d, nil
}
