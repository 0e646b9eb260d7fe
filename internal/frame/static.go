package frame

import (
	"context"
	"image"
	"sync"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// StaticSource serves a fixed image. Connection and readiness can be toggled,
// which makes it the stand-in for a camera in tests and demos.
type StaticSource struct {
	mu        sync.RWMutex
	img       image.Image
	connected bool
	ready     bool
	snapshots int
}

func NewStaticSource(img image.Image) *StaticSource {
	return &StaticSource{
		img:       img,
		connected: true,
		ready:     img != nil,
	}
}

func (s *StaticSource) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *StaticSource) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready && s.img != nil
}

func (s *StaticSource) NaturalSize() domain.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return domain.Size{}
	}
	return SizeOf(s.img)
}

func (s *StaticSource) Snapshot(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrDisconnected
	}
	if s.img == nil {
		return nil, ErrNotReady
	}
	s.snapshots++
	return s.img, nil
}

// SetConnected simulates the feed dropping or coming back.
func (s *StaticSource) SetConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.mu.Unlock()
}

func (s *StaticSource) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// SetImage swaps the served frame.
func (s *StaticSource) SetImage(img image.Image) {
	s.mu.Lock()
	s.img = img
	s.mu.Unlock()
}

// Snapshots returns how many stills have been served.
func (s *StaticSource) Snapshots() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots
}
