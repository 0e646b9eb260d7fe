package facefind

import (
	"context"
	"fmt"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/frame"
)

// Detector sends captured frames to the FaceFind backend
type Detector struct {
	client *Client
	now    func() time.Time
}

// NewDetector creates a detector backed by the FaceFind HTTP API
func NewDetector(config Config) *Detector {
	return &Detector{
		client: NewClient(config),
		now:    time.Now,
	}
}

// Detect uploads the JPEG as a data URI and normalizes the response.
// The backend already answers in natural pixel coordinates, so size is not used.
func (d *Detector) Detect(ctx context.Context, jpeg []byte, _ domain.Size) (*domain.Detection, error) {
	if len(jpeg) == 0 {
		return nil, ErrEmptyImage
	}

	resp, err := d.client.DetectFaces(ctx, frame.DataURI(jpeg))
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	detection, err := Normalize(resp, d.now())
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	return detection, nil
}
