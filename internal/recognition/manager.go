package recognition

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/audit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/detection"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/frame"
	"github.com/saturnino-fabrica-de-software/facefind/internal/overlay"
)

// Sink receives every event of every registered session
type Sink func(Event)

// Status is a point-in-time view of one session
type Status struct {
	CameraID    string              `json:"camera_id"`
	State       State               `json:"state"`
	Interval    time.Duration       `json:"interval"`
	Pending     bool                `json:"pending"`
	LastTick    time.Time           `json:"last_tick"`
	Results     []domain.FaceResult `json:"results"`
	OverlaySize domain.Size         `json:"overlay_size"`
}

type entry struct {
	session *Session
	cancel  context.CancelFunc
	done    chan struct{}
}

// Manager owns one recognition session per camera.
// Sessions share the detector and, optionally, the aggregate limiter; nothing else.
type Manager struct {
	detector    detection.Detector
	config      Config
	logger      *slog.Logger
	limiter     Limiter
	recorder    Recorder
	auditLogger audit.Logger
	sinks       []Sink

	mu       sync.RWMutex
	sessions map[string]*entry
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger passed to every session
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSharedLimiter bounds the detection rate of all sessions together
func WithSharedLimiter(limiter Limiter) ManagerOption {
	return func(m *Manager) {
		m.limiter = limiter
	}
}

// WithSightingRecorder persists matches of every session
func WithSightingRecorder(recorder Recorder) ManagerOption {
	return func(m *Manager) {
		m.recorder = recorder
	}
}

// WithManagerAudit audits every session
func WithManagerAudit(logger audit.Logger) ManagerOption {
	return func(m *Manager) {
		m.auditLogger = logger
	}
}

// WithSink forwards session events, e.g. to the websocket hub or alert engine
func WithSink(sink Sink) ManagerOption {
	return func(m *Manager) {
		m.sinks = append(m.sinks, sink)
	}
}

// NewManager creates an empty manager
func NewManager(detector detection.Detector, config Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		detector: detector,
		config:   config,
		logger:   slog.Default(),
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register creates the session for a camera. A previous registration of the
// same camera is stopped and replaced.
func (m *Manager) Register(cameraID string, source frame.Source, ov overlay.Overlay) *Session {
	opts := []Option{WithLogger(m.logger)}
	if m.limiter != nil {
		opts = append(opts, WithLimiter(m.limiter))
	}
	if m.recorder != nil {
		opts = append(opts, WithRecorder(m.recorder))
	}
	if m.auditLogger != nil {
		opts = append(opts, WithAuditLogger(m.auditLogger))
	}

	session := NewSession(cameraID, source, ov, m.detector, m.config, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{session: session, cancel: cancel, done: make(chan struct{})}
	events := session.Subscribe(ctx)
	go m.forward(events, e.done)

	m.mu.Lock()
	old := m.sessions[cameraID]
	m.sessions[cameraID] = e
	m.mu.Unlock()

	if old != nil {
		m.release(old)
	}

	m.logger.Info("camera registered", slog.String("camera_id", cameraID))

	return session
}

// Unregister stops and removes a camera session
func (m *Manager) Unregister(cameraID string) error {
	m.mu.Lock()
	e, ok := m.sessions[cameraID]
	delete(m.sessions, cameraID)
	m.mu.Unlock()

	if !ok {
		return domain.ErrCameraNotRegistered
	}

	m.release(e)
	return nil
}

// release stops the session and waits for its in-flight ticks, so nothing
// records or publishes once release returns.
func (m *Manager) release(e *entry) {
	e.session.Stop()
	e.session.Wait()
	e.cancel()
	<-e.done
}

func (m *Manager) forward(events <-chan Event, done chan struct{}) {
	defer close(done)
	for event := range events {
		for _, sink := range m.sinks {
			sink(event)
		}
	}
}

func (m *Manager) lookup(cameraID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[cameraID]
	if !ok {
		return nil, domain.ErrCameraNotRegistered
	}
	return e.session, nil
}

// Session returns the session of a camera
func (m *Manager) Session(cameraID string) (*Session, bool) {
	s, err := m.lookup(cameraID)
	return s, err == nil
}

// revive fetches one frame from a source that is not ready yet or was
// marked disconnected, so a camera that came back can be started again.
func revive(ctx context.Context, s *Session) error {
	prober, ok := s.source.(frame.Prober)
	if !ok || (s.source.Connected() && s.source.Ready()) {
		return nil
	}
	return prober.Probe(ctx)
}

// Start starts recognition on a camera. Sources that can probe are probed
// first so their natural size is known before the first tick.
func (m *Manager) Start(ctx context.Context, cameraID string, interval time.Duration) error {
	s, err := m.lookup(cameraID)
	if err != nil {
		return err
	}

	if err := revive(ctx, s); err != nil {
		m.logger.Warn("camera probe failed",
			slog.String("camera_id", cameraID),
			slog.String("error", err.Error()),
		)
	}

	return s.Start(interval)
}

// Stop stops recognition on a camera
func (m *Manager) Stop(cameraID string) error {
	s, err := m.lookup(cameraID)
	if err != nil {
		return err
	}
	s.Stop()
	return nil
}

// Capture runs a single manual capture-and-recognize
func (m *Manager) Capture(ctx context.Context, cameraID string) (Outcome, error) {
	s, err := m.lookup(cameraID)
	if err != nil {
		return OutcomeSkipped, err
	}

	if err := revive(ctx, s); err != nil {
		return OutcomeSkipped, domain.ErrSourceDisconnected.WithError(err)
	}

	return s.CaptureAndRecognize(ctx)
}

// Overlay returns the overlay a camera draws on
func (m *Manager) Overlay(cameraID string) (overlay.Overlay, error) {
	s, err := m.lookup(cameraID)
	if err != nil {
		return nil, err
	}
	return s.Overlay(), nil
}

// StatusOf returns the status of one camera
func (m *Manager) StatusOf(cameraID string) (Status, error) {
	s, err := m.lookup(cameraID)
	if err != nil {
		return Status{}, err
	}
	return statusOf(s), nil
}

// Status returns the status of every registered camera, ordered by camera id
func (m *Manager) Status() []Status {
	m.mu.RLock()
	out := make([]Status, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, statusOf(e.session))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CameraID < out[j].CameraID
	})
	return out
}

// Running returns how many sessions are running
func (m *Manager) Running() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, e := range m.sessions {
		if e.session.State() == StateRunning {
			n++
		}
	}
	return n
}

// StopAll stops every session and waits for in-flight ticks and event
// forwarding to finish
func (m *Manager) StopAll() {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.sessions))
	for id, e := range m.sessions {
		entries = append(entries, e)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, e := range entries {
		m.release(e)
	}
}

func statusOf(s *Session) Status {
	return Status{
		CameraID:    s.CameraID(),
		State:       s.State(),
		Interval:    s.Interval(),
		Pending:     s.Pending(),
		LastTick:    s.LastTick(),
		Results:     s.Results(),
		OverlaySize: s.overlay.Size(),
	}
}
