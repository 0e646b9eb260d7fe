package recognition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/audit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/detection"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/frame"
	"github.com/saturnino-fabrica-de-software/facefind/internal/overlay"
)

// DefaultInterval is used when Start receives a non-positive interval
const DefaultInterval = 3 * time.Second

// State is the run state of a session
type State string

const (
	StateInactive State = "inactive"
	StateRunning  State = "running"
)

// Outcome describes what one capture-and-recognize call did
type Outcome string

const (
	// OutcomeSkipped: source not ready, a request already pending, or throttled
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFaces: one or more faces were drawn
	OutcomeFaces Outcome = "faces"
	// OutcomeEmpty: the detector found no faces, overlay cleared
	OutcomeEmpty Outcome = "empty"
	// OutcomeFailed: capture or detection failed, overlay cleared
	OutcomeFailed Outcome = "failed"
	// OutcomeDiscarded: the response arrived after Stop and was ignored
	OutcomeDiscarded Outcome = "discarded"
)

// Limiter bounds the aggregate detection rate across sessions
type Limiter interface {
	Allow(key string) bool
}

// Recorder persists matched faces
type Recorder interface {
	Record(ctx context.Context, cameraID string, faces []domain.FaceResult, capturedAt time.Time) error
}

// Config holds per-session settings
type Config struct {
	Interval    time.Duration
	JPEGQuality int
	// LimiterKey groups sessions sharing one limiter budget
	LimiterKey string
}

// DefaultConfig returns the defaults used by the camera UI: 3s interval, JPEG quality 85
func DefaultConfig() Config {
	return Config{
		Interval:    DefaultInterval,
		JPEGQuality: frame.DefaultJPEGQuality,
		LimiterKey:  "detector",
	}
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLimiter shares an aggregate rate limiter with the session
func WithLimiter(limiter Limiter) Option {
	return func(s *Session) {
		s.limiter = limiter
	}
}

// WithRecorder persists matched faces
func WithRecorder(recorder Recorder) Option {
	return func(s *Session) {
		s.recorder = recorder
	}
}

// WithAuditLogger records start, stop, matches and failures
func WithAuditLogger(logger audit.Logger) Option {
	return func(s *Session) {
		s.auditLogger = logger
	}
}

// Session is the polling recognition loop of one camera.
//
// At most one capture-and-recognize request is in flight at a time; ticks
// that fire while a request is pending are skipped, not queued. Stop clears
// results and overlay, and responses that arrive afterwards are discarded.
type Session struct {
	cameraID string
	source   frame.Source
	overlay  overlay.Overlay
	detector detection.Detector
	config   Config

	logger      *slog.Logger
	limiter     Limiter
	recorder    Recorder
	auditLogger audit.Logger
	now         func() time.Time

	pending atomic.Bool
	probing atomic.Bool
	loops   atomic.Int32
	flight  sync.WaitGroup

	// mu guards the fields below and serializes overlay writes
	mu         sync.Mutex
	state      State
	interval   time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
	generation uint64
	results    []domain.FaceResult
	lastTick   time.Time

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewSession creates an inactive session
func NewSession(cameraID string, source frame.Source, ov overlay.Overlay, detector detection.Detector, config Config, opts ...Option) *Session {
	defaults := DefaultConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.JPEGQuality <= 0 || config.JPEGQuality > 100 {
		config.JPEGQuality = defaults.JPEGQuality
	}
	if config.LimiterKey == "" {
		config.LimiterKey = defaults.LimiterKey
	}

	s := &Session{
		cameraID: cameraID,
		source:   source,
		overlay:  ov,
		detector: detector,
		config:   config,
		logger:   slog.Default(),
		now:      time.Now,
		state:    StateInactive,
		subs:     make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(
		slog.String("component", "recognition"),
		slog.String("camera_id", cameraID),
	)

	return s
}

// CameraID returns the camera this session belongs to
func (s *Session) CameraID() string {
	return s.cameraID
}

// Overlay returns the drawing surface of the session
func (s *Session) Overlay() overlay.Overlay {
	return s.overlay
}

// Start runs one capture immediately and then one every interval.
// It is a no-op when already running and fails with ErrSourceDisconnected
// when the source is not connected.
func (s *Session) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = s.config.Interval
	}

	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.source.Connected() {
		s.mu.Unlock()
		return domain.ErrSourceDisconnected
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.generation++
	gen := s.generation
	s.state = StateRunning
	s.interval = interval
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.loops.Add(1)
	s.mu.Unlock()

	s.logger.Info("recognition started", slog.Duration("interval", interval))
	s.publish(Event{Type: EventStarted})
	s.logAudit(context.Background(), audit.Event{
		EventType: audit.EventRecognitionStarted,
		Success:   true,
		Metadata:  map[string]string{"interval": interval.String()},
	})

	go s.run(ctx, gen, interval, done)

	return nil
}

// Stop cancels the repetition, clears results and overlay and marks the
// session inactive. Safe to call any number of times.
func (s *Session) Stop() {
	s.stop(0, "stopped")
}

// stop tears the session down. A non-zero gen only stops that generation,
// so a stale loop cannot stop a session restarted in the meantime.
func (s *Session) stop(gen uint64, reason string) {
	s.mu.Lock()
	if gen != 0 && gen != s.generation {
		s.mu.Unlock()
		return
	}

	wasRunning := s.state == StateRunning
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.done
	s.done = nil
	s.generation++
	s.state = StateInactive
	s.results = nil
	s.overlay.Clear()
	if wasRunning {
		s.publish(Event{Type: EventStopped, Reason: reason})
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}

	if !wasRunning {
		return
	}

	s.logger.Info("recognition stopped", slog.String("reason", reason))
	s.logAudit(context.Background(), audit.Event{
		EventType: audit.EventRecognitionStopped,
		Success:   true,
		Metadata:  map[string]string{"reason": reason},
	})
}

// run owns the ticker. Each tick runs in its own goroutine so ticks keep
// firing at the configured interval while a slow request is pending.
func (s *Session) run(ctx context.Context, gen uint64, interval time.Duration, done chan struct{}) {
	defer close(done)
	defer s.loops.Add(-1)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.fire(ctx, gen)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, gen)
		}
	}
}

func (s *Session) fire(ctx context.Context, gen uint64) {
	s.flight.Add(1)
	go func() {
		defer s.flight.Done()
		s.tick(ctx, gen)
	}()
}

func (s *Session) tick(ctx context.Context, gen uint64) {
	if ctx.Err() != nil {
		return
	}
	if !s.source.Connected() {
		s.logger.Warn("camera disconnected, stopping recognition")
		s.stop(gen, "disconnected")
		return
	}

	// a source that was unreachable at Start learns its size here
	if prober, ok := s.source.(frame.Prober); ok && !s.source.Ready() {
		if !s.probing.CompareAndSwap(false, true) {
			return
		}
		err := prober.Probe(ctx)
		s.probing.Store(false)
		if err != nil {
			s.logger.Debug("source still unreachable", slog.String("error", err.Error()))
			return
		}
	}

	outcome, err := s.captureAndRecognize(ctx, gen)
	if err != nil {
		s.logger.Warn("recognition tick failed",
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()),
		)
	}
}

// CaptureAndRecognize performs a single capture, detection and overlay update.
// It is also used for manual shots; those share the in-flight guard with the loop.
// Failures are reported but already applied as an empty result.
func (s *Session) CaptureAndRecognize(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	return s.captureAndRecognize(ctx, gen)
}

func (s *Session) captureAndRecognize(ctx context.Context, gen uint64) (Outcome, error) {
	if !s.source.Ready() || s.source.NaturalSize().IsZero() {
		s.logger.Debug("source not ready, skipping capture")
		return OutcomeSkipped, nil
	}
	if !s.pending.CompareAndSwap(false, true) {
		s.logger.Debug("request pending, skipping capture")
		return OutcomeSkipped, nil
	}
	defer s.pending.Store(false)

	if s.limiter != nil && !s.limiter.Allow(s.config.LimiterKey) {
		s.logger.Debug("detection rate limit reached, skipping capture")
		return OutcomeSkipped, nil
	}

	started := s.now()
	s.mu.Lock()
	s.lastTick = started
	s.mu.Unlock()

	captured, err := frame.Capture(ctx, s.source)
	if err != nil {
		if errors.Is(err, frame.ErrNotReady) || errors.Is(err, frame.ErrDisconnected) {
			s.logger.Debug("source became unavailable during capture", slog.String("error", err.Error()))
			return OutcomeSkipped, nil
		}
		return s.fail(ctx, gen, fmt.Errorf("capture frame: %w", err))
	}

	payload, err := frame.EncodeJPEG(captured.Image, s.config.JPEGQuality)
	if err != nil {
		return s.fail(ctx, gen, fmt.Errorf("encode frame: %w", err))
	}

	result, err := s.detector.Detect(ctx, payload, captured.Size)
	if err != nil {
		return s.fail(ctx, gen, fmt.Errorf("detect: %w", err))
	}

	// stamped with the local clock, the one alert cooldowns are pruned with
	var faces []domain.FaceResult
	detectedAt := s.now()
	if result != nil {
		faces = result.Faces
	}
	if !s.apply(gen, faces, captured.Size, detectedAt) {
		s.logger.Debug("discarding response received after stop")
		return OutcomeDiscarded, nil
	}

	if len(faces) == 0 {
		return OutcomeEmpty, nil
	}

	s.logger.Debug("faces detected",
		slog.Int("faces", len(faces)),
		slog.Duration("elapsed", s.now().Sub(started)),
	)
	s.logAudit(ctx, audit.Event{
		EventType: audit.EventFacesDetected,
		Success:   true,
		Metadata:  map[string]string{"faces": strconv.Itoa(len(faces))},
	})
	s.afterMatch(ctx, faces, detectedAt)

	return OutcomeFaces, nil
}

// fail applies the fail-open rule: results and overlay are cleared
func (s *Session) fail(ctx context.Context, gen uint64, err error) (Outcome, error) {
	if !s.apply(gen, nil, domain.Size{}, time.Time{}) {
		return OutcomeDiscarded, nil
	}

	s.logAudit(ctx, audit.Event{
		EventType: audit.EventDetectionFailed,
		Success:   false,
		Error:     err.Error(),
	})

	return OutcomeFailed, err
}

// apply stores results and redraws the overlay unless gen is stale.
// Returns false when the response belongs to a stopped generation.
func (s *Session) apply(gen uint64, faces []domain.FaceResult, natural domain.Size, detectedAt time.Time) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}

	defer s.mu.Unlock()

	// events are published under mu so nothing follows recognition.stopped
	if len(faces) == 0 {
		hadResults := len(s.results) > 0
		s.results = nil
		s.overlay.Clear()
		if hadResults {
			s.publish(Event{Type: EventFacesCleared})
		}
		return true
	}

	s.results = append([]domain.FaceResult(nil), faces...)
	s.overlay.Draw(overlay.BoxesFor(faces, natural, s.overlay.Size()))
	s.publish(Event{Type: EventFacesDetected, Faces: faces})
	if matched := matches(faces); len(matched) > 0 {
		s.publish(Event{Type: EventMatchFound, Faces: matched, Timestamp: detectedAt})
	}

	return true
}

func matches(faces []domain.FaceResult) []domain.FaceResult {
	var matched []domain.FaceResult
	for _, f := range faces {
		if f.IsMatch() {
			matched = append(matched, f)
		}
	}
	return matched
}

// afterMatch audits and records matched faces
func (s *Session) afterMatch(ctx context.Context, faces []domain.FaceResult, at time.Time) {
	matched := matches(faces)
	if len(matched) == 0 {
		return
	}

	for _, f := range matched {
		s.logAudit(ctx, audit.Event{
			EventType:  audit.EventMatchFound,
			PersonName: f.Name(),
			Success:    true,
			Metadata: map[string]string{
				"face_id":    strconv.Itoa(f.FaceID),
				"similarity": strconv.FormatFloat(f.Similarity, 'f', 4, 64),
			},
		})
	}

	if s.recorder == nil {
		return
	}
	// The session context is cancelled on Stop; a match seen before that still gets recorded.
	if err := s.recorder.Record(context.WithoutCancel(ctx), s.cameraID, matched, at); err != nil {
		s.logger.Error("failed to record sighting", slog.String("error", err.Error()))
	}
}

func (s *Session) logAudit(ctx context.Context, event audit.Event) {
	if s.auditLogger == nil {
		return
	}
	event.CameraID = s.cameraID
	if event.Provider == "" {
		event.Provider = "recognition"
	}
	_ = s.auditLogger.Log(ctx, event)
}

// State returns the current run state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval returns the interval of the current run, zero when inactive
func (s *Session) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return 0
	}
	return s.interval
}

// Results returns a copy of the faces from the last successful tick
func (s *Session) Results() []domain.FaceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FaceResult(nil), s.results...)
}

// LastTick returns when the last capture was sent
func (s *Session) LastTick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTick
}

// Pending reports whether a request is in flight
func (s *Session) Pending() bool {
	return s.pending.Load()
}

// Wait blocks until all in-flight ticks have returned
func (s *Session) Wait() {
	s.flight.Wait()
}
