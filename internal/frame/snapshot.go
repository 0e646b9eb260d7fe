package frame

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

const maxSnapshotSize = 10 * 1024 * 1024 // 10MB

// SnapshotConfig configures a camera that exposes a still-image URL.
type SnapshotConfig struct {
	URL         string
	Username    string
	Password    string
	Timeout     time.Duration
	MaxFailures int
}

// DefaultSnapshotConfig returns a SnapshotConfig with sensible defaults
func DefaultSnapshotConfig(url string) SnapshotConfig {
	return SnapshotConfig{
		URL:         url,
		Timeout:     10 * time.Second,
		MaxFailures: 3,
	}
}

// SnapshotSource fetches a fresh JPEG/PNG still from an IP camera on every
// Snapshot call. It reports disconnected after MaxFailures consecutive
// transport errors and reconnects on the next successful fetch.
type SnapshotSource struct {
	httpClient *http.Client
	config     SnapshotConfig

	mu       sync.RWMutex
	size     domain.Size
	ready    bool
	failures int
}

func NewSnapshotSource(config SnapshotConfig) *SnapshotSource {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &SnapshotSource{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

func (s *SnapshotSource) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures < s.config.MaxFailures
}

func (s *SnapshotSource) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready && !s.size.IsZero()
}

func (s *SnapshotSource) NaturalSize() domain.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Probe fetches one still so the source learns its natural size. It also
// resets the failure counter, which is how a disconnected camera is revived.
func (s *SnapshotSource) Probe(ctx context.Context) error {
	_, err := s.Snapshot(ctx)
	return err
}

func (s *SnapshotSource) Snapshot(ctx context.Context) (image.Image, error) {
	img, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			s.failures++
		}
		return nil, err
	}

	s.failures = 0
	s.size = SizeOf(img)
	s.ready = !s.size.IsZero()
	return img, nil
}

func (s *SnapshotSource) fetch(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.config.Username != "" {
		req.SetBasicAuth(s.config.Username, s.config.Password)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotSize))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	return Decode(body)
}
