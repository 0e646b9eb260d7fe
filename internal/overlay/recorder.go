package overlay

import (
	"sync"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Recorder is an Overlay that remembers what it was asked to draw.
type Recorder struct {
	mu     sync.Mutex
	size   domain.Size
	boxes  []Box
	draws  int
	clears int
}

func NewRecorder(size domain.Size) *Recorder {
	return &Recorder{size: size}
}

func (r *Recorder) Size() domain.Size {
	return r.size
}

func (r *Recorder) Draw(boxes []Box) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes = append([]Box(nil), boxes...)
	r.draws++
}

func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes = nil
	r.clears++
}

func (r *Recorder) Boxes() []Box {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Box(nil), r.boxes...)
}

func (r *Recorder) Draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws
}

func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}
