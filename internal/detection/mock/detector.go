package mock

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// ErrEmptyImage is returned for an empty payload
var ErrEmptyImage = errors.New("empty image")

// Detector implementa detecção determinística para testes e desenvolvimento.
// Retorna uma face no centro do frame; quando Name está definido ela é um match.
type Detector struct {
	Name       string
	Similarity float64

	calls atomic.Int64
}

// New cria uma nova instância do mock
func New() *Detector {
	return &Detector{Similarity: 0.9}
}

// Detect returns a single face covering the middle half of the frame
func (d *Detector) Detect(ctx context.Context, jpeg []byte, size domain.Size) (*domain.Detection, error) {
	d.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(jpeg) == 0 {
		return nil, ErrEmptyImage
	}
	if size.IsZero() {
		return &domain.Detection{Faces: []domain.FaceResult{}, Timestamp: time.Now()}, nil
	}

	face := domain.FaceResult{
		FaceID: 1,
		Box: domain.BoundingBox{
			X:      float64(size.Width) / 4,
			Y:      float64(size.Height) / 4,
			Width:  float64(size.Width) / 2,
			Height: float64(size.Height) / 2,
		},
	}
	if d.Name != "" {
		name := d.Name
		face.MatchName = &name
		face.MatchFound = true
		face.Similarity = d.Similarity
	}

	return &domain.Detection{
		Faces:         []domain.FaceResult{face},
		FacesDetected: 1,
		Timestamp:     time.Now(),
	}, nil
}

// Calls returns how many times Detect was invoked
func (d *Detector) Calls() int64 {
	return d.calls.Load()
}
