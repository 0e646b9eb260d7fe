package detection

import (
	"context"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Detector envia um frame JPEG para reconhecimento e devolve as faces encontradas
type Detector interface {
	// Detect recebe o JPEG capturado e o tamanho natural do frame.
	// As bounding boxes retornadas estão em coordenadas desse tamanho natural.
	Detect(ctx context.Context, jpeg []byte, size domain.Size) (*domain.Detection, error)
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(ctx context.Context, jpeg []byte, size domain.Size) (*domain.Detection, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, jpeg []byte, size domain.Size) (*domain.Detection, error) {
	return f(ctx, jpeg, size)
}
