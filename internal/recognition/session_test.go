package recognition

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facefind/internal/audit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/detection/facefind"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/frame"
	"github.com/saturnino-fabrica-de-software/facefind/internal/overlay"
	"github.com/saturnino-fabrica-de-software/facefind/internal/ratelimit"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// fakeDetector returns scripted results and can block until released
type fakeDetector struct {
	mu      sync.Mutex
	calls   int
	script  func(call int) (*domain.Detection, error)
	release chan struct{}

	inflight    atomic.Int32
	maxInflight atomic.Int32
	started     chan struct{}
}

func newFakeDetector(script func(call int) (*domain.Detection, error)) *fakeDetector {
	return &fakeDetector{script: script, started: make(chan struct{}, 64)}
}

func (d *fakeDetector) Detect(ctx context.Context, jpeg []byte, size domain.Size) (*domain.Detection, error) {
	n := d.inflight.Add(1)
	defer d.inflight.Add(-1)
	for {
		cur := d.maxInflight.Load()
		if n <= cur || d.maxInflight.CompareAndSwap(cur, n) {
			break
		}
	}

	d.mu.Lock()
	d.calls++
	call := d.calls
	release := d.release
	d.mu.Unlock()

	select {
	case d.started <- struct{}{}:
	default:
	}

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if d.script == nil {
		return &domain.Detection{Faces: []domain.FaceResult{}}, nil
	}
	return d.script(call)
}

func (d *fakeDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func faces(boxes ...domain.BoundingBox) *domain.Detection {
	out := make([]domain.FaceResult, 0, len(boxes))
	for i, b := range boxes {
		out = append(out, domain.FaceResult{FaceID: i + 1, Box: b})
	}
	return &domain.Detection{Faces: out, FacesDetected: len(out), Timestamp: time.Now()}
}

type fixture struct {
	source   *frame.StaticSource
	overlay  *overlay.Recorder
	detector *fakeDetector
	session  *Session
}

func newFixture(t *testing.T, detector *fakeDetector, opts ...Option) *fixture {
	t.Helper()

	source := frame.NewStaticSource(image.NewRGBA(image.Rect(0, 0, 640, 480)))
	rec := overlay.NewRecorder(domain.Size{Width: 320, Height: 240})

	opts = append([]Option{WithLogger(testLogger())}, opts...)
	s := NewSession("cam-1", source, rec, detector, Config{Interval: 20 * time.Millisecond}, opts...)

	t.Cleanup(func() {
		s.Stop()
		s.Wait()
	})

	return &fixture{source: source, overlay: rec, detector: detector, session: s}
}

func TestSession_AtMostOneInFlight(t *testing.T) {
	detector := newFakeDetector(nil)
	detector.release = make(chan struct{})
	f := newFixture(t, detector)

	require.NoError(t, f.session.Start(10*time.Millisecond))

	<-detector.started
	// many intervals elapse while the first request is pending
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, detector.Calls())
	assert.True(t, f.session.Pending())

	outcome, err := f.session.CaptureAndRecognize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome, "manual capture shares the pending guard")

	close(detector.release)

	require.Eventually(t, func() bool {
		return detector.Calls() >= 2
	}, time.Second, 5*time.Millisecond)

	f.session.Stop()
	f.session.Wait()
	assert.Equal(t, int32(1), detector.maxInflight.Load())
}

func TestSession_IdempotentStop(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return faces(domain.BoundingBox{X: 10, Y: 10, Width: 20, Height: 20}), nil
	})
	f := newFixture(t, detector)

	require.NoError(t, f.session.Start(10*time.Millisecond))
	require.Eventually(t, func() bool {
		return len(f.overlay.Boxes()) == 1
	}, time.Second, 5*time.Millisecond)

	f.session.Stop()
	f.session.Wait()
	stateOnce := f.session.State()
	loopsOnce := f.session.loops.Load()
	boxesOnce := f.overlay.Boxes()
	resultsOnce := f.session.Results()

	f.session.Stop()
	f.session.Wait()

	assert.Equal(t, StateInactive, stateOnce)
	assert.Equal(t, stateOnce, f.session.State())
	assert.Equal(t, int32(0), loopsOnce)
	assert.Equal(t, loopsOnce, f.session.loops.Load())
	assert.Empty(t, boxesOnce)
	assert.Equal(t, boxesOnce, f.overlay.Boxes())
	assert.Empty(t, resultsOnce)
	assert.Equal(t, resultsOnce, f.session.Results())
	assert.Equal(t, time.Duration(0), f.session.Interval())

	calls := detector.Calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, detector.Calls(), "no ticks after stop")
}

func TestSession_ScalesBoxesToDisplayedSize(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return faces(domain.BoundingBox{X: 100, Y: 50, Width: 60, Height: 80}), nil
	})
	f := newFixture(t, detector)

	outcome, err := f.session.CaptureAndRecognize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeFaces, outcome)
	boxes := f.overlay.Boxes()
	require.Len(t, boxes, 1)
	assert.Equal(t, domain.BoundingBox{X: 50, Y: 25, Width: 30, Height: 40}, boxes[0].BoundingBox)
	assert.Equal(t, "Unknown", boxes[0].Label)

	results := f.session.Results()
	require.Len(t, results, 1)
	assert.Equal(t, domain.BoundingBox{X: 100, Y: 50, Width: 60, Height: 80}, results[0].Box, "results stay in natural coordinates")
}

func TestSession_FailOpenOnServerError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":{"faces":[{"face_id":1,"best_match_name":null,"match_found":false,"similarity_percentage":0,"bbox":{"x":10,"y":10,"width":50,"height":50}}],"faces_detected":1,"timestamp":"2024-05-01T10:00:00Z"}}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"boom"}`))
	}))
	defer server.Close()

	cfg := facefind.DefaultConfig()
	cfg.BaseURL = server.URL
	detector := facefind.NewDetector(cfg)

	source := frame.NewStaticSource(image.NewRGBA(image.Rect(0, 0, 640, 480)))
	rec := overlay.NewRecorder(domain.Size{Width: 640, Height: 480})
	s := NewSession("cam-1", source, rec, detector, DefaultConfig(), WithLogger(testLogger()))

	outcome, err := s.CaptureAndRecognize(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFaces, outcome)
	require.Len(t, rec.Boxes(), 1)

	require.NoError(t, s.Start(20*time.Millisecond))
	defer func() {
		s.Stop()
		s.Wait()
	}()

	require.Eventually(t, func() bool {
		return requests.Load() >= 4
	}, 2*time.Second, 5*time.Millisecond, "ticks keep firing after failures")

	assert.Equal(t, StateRunning, s.State())
	assert.Empty(t, rec.Boxes())
	assert.Empty(t, s.Results())
}

func TestSession_FailureReturnedFromManualCapture(t *testing.T) {
	wantErr := errors.New("connection refused")
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		if call == 1 {
			return faces(domain.BoundingBox{Width: 10, Height: 10}), nil
		}
		return nil, wantErr
	})
	auditLogger := &audit.MemoryLogger{}
	f := newFixture(t, detector, WithAuditLogger(auditLogger))

	_, err := f.session.CaptureAndRecognize(context.Background())
	require.NoError(t, err)
	require.Len(t, f.overlay.Boxes(), 1)

	outcome, err := f.session.CaptureAndRecognize(context.Background())

	assert.Equal(t, OutcomeFailed, outcome)
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, f.overlay.Boxes())
	assert.Empty(t, f.session.Results())
	assert.False(t, f.session.Pending(), "pending cleared after failure")
	assert.Equal(t, 1, auditLogger.Count(audit.EventDetectionFailed))
}

func TestSession_EmptyResultClearsOverlay(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		if call == 1 {
			return faces(
				domain.BoundingBox{X: 10, Y: 10, Width: 20, Height: 20},
				domain.BoundingBox{X: 100, Y: 10, Width: 20, Height: 20},
			), nil
		}
		return &domain.Detection{Faces: []domain.FaceResult{}}, nil
	})
	f := newFixture(t, detector)

	outcome, err := f.session.CaptureAndRecognize(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFaces, outcome)
	require.Len(t, f.overlay.Boxes(), 2)
	clears := f.overlay.Clears()

	outcome, err = f.session.CaptureAndRecognize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, outcome)
	assert.Empty(t, f.overlay.Boxes())
	assert.Equal(t, clears+1, f.overlay.Clears())
	assert.Empty(t, f.session.Results())
}

func TestSession_StartTwiceKeepsOneTicker(t *testing.T) {
	f := newFixture(t, newFakeDetector(nil))

	require.NoError(t, f.session.Start(3*time.Second))
	require.NoError(t, f.session.Start(3*time.Second))

	assert.Equal(t, int32(1), f.session.loops.Load())
	assert.Equal(t, StateRunning, f.session.State())
	assert.Equal(t, 3*time.Second, f.session.Interval())

	f.session.Stop()
	assert.Equal(t, int32(0), f.session.loops.Load())
}

func TestSession_StartRunsImmediately(t *testing.T) {
	detector := newFakeDetector(nil)
	f := newFixture(t, detector)

	require.NoError(t, f.session.Start(time.Hour))

	select {
	case <-detector.started:
	case <-time.After(time.Second):
		t.Fatal("first capture did not run immediately")
	}
}

func TestSession_StartDefaultsInterval(t *testing.T) {
	f := newFixture(t, newFakeDetector(nil))

	require.NoError(t, f.session.Start(0))

	assert.Equal(t, 20*time.Millisecond, f.session.Interval())
}

func TestSession_StartDisconnected(t *testing.T) {
	f := newFixture(t, newFakeDetector(nil))
	f.source.SetConnected(false)

	err := f.session.Start(time.Second)

	assert.ErrorIs(t, err, domain.ErrSourceDisconnected)
	assert.Equal(t, StateInactive, f.session.State())
	assert.Equal(t, int32(0), f.session.loops.Load())
}

func TestSession_DisconnectStopsSession(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return faces(domain.BoundingBox{Width: 10, Height: 10}), nil
	})
	f := newFixture(t, detector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := f.session.Subscribe(ctx)

	require.NoError(t, f.session.Start(10*time.Millisecond))
	require.Eventually(t, func() bool {
		return len(f.overlay.Boxes()) == 1
	}, time.Second, 5*time.Millisecond)

	f.source.SetConnected(false)

	require.Eventually(t, func() bool {
		return f.session.State() == StateInactive
	}, time.Second, 5*time.Millisecond)
	f.session.Wait()

	assert.Empty(t, f.overlay.Boxes())
	assert.Empty(t, f.session.Results())
	assert.Equal(t, int32(0), f.session.loops.Load())

	var stopped *Event
	for stopped == nil {
		select {
		case e := <-events:
			if e.Type == EventStopped {
				stopped = &e
			}
		case <-time.After(time.Second):
			t.Fatal("no stopped event")
		}
	}
	assert.Equal(t, "disconnected", stopped.Reason)
}

func TestSession_NotReadySkips(t *testing.T) {
	detector := newFakeDetector(nil)
	f := newFixture(t, detector)
	f.source.SetReady(false)

	outcome, err := f.session.CaptureAndRecognize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)
	assert.Equal(t, 0, detector.Calls())
	assert.Equal(t, 0, f.source.Snapshots())
	assert.Equal(t, 0, f.overlay.Draws()+f.overlay.Clears(), "skip has no side effects")
}

func TestSession_StaleResponseDiscarded(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return faces(domain.BoundingBox{Width: 10, Height: 10}), nil
	})
	detector.release = make(chan struct{})
	f := newFixture(t, detector)

	require.NoError(t, f.session.Start(time.Hour))
	<-detector.started

	f.session.Stop()
	close(detector.release)
	f.session.Wait()

	assert.Equal(t, 0, f.overlay.Draws())
	assert.Empty(t, f.overlay.Boxes())
	assert.Empty(t, f.session.Results())
}

func TestSession_ManualCaptureDiscardedByStop(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return faces(domain.BoundingBox{Width: 10, Height: 10}), nil
	})
	detector.release = make(chan struct{})
	f := newFixture(t, detector)

	result := make(chan Outcome, 1)
	go func() {
		outcome, _ := f.session.CaptureAndRecognize(context.Background())
		result <- outcome
	}()
	<-detector.started

	f.session.Stop()
	close(detector.release)

	assert.Equal(t, OutcomeDiscarded, <-result)
	assert.Empty(t, f.overlay.Boxes())
}

func TestSession_LimiterThrottles(t *testing.T) {
	detector := newFakeDetector(nil)
	limiter := ratelimit.PerMinute(2)
	f := newFixture(t, detector, WithLimiter(limiter))

	for i := 0; i < 2; i++ {
		outcome, err := f.session.CaptureAndRecognize(context.Background())
		require.NoError(t, err)
		require.Equal(t, OutcomeEmpty, outcome)
	}

	outcome, err := f.session.CaptureAndRecognize(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)
	assert.Equal(t, 2, detector.Calls())
	assert.False(t, f.session.Pending())
}

type memoryRecorder struct {
	mu     sync.Mutex
	faces  []domain.FaceResult
	camera string
	at     []time.Time

	entered chan struct{}
	block   chan struct{}
}

func (r *memoryRecorder) Record(ctx context.Context, cameraID string, faces []domain.FaceResult, capturedAt time.Time) error {
	if r.entered != nil {
		select {
		case r.entered <- struct{}{}:
		default:
		}
	}
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera = cameraID
	r.faces = append(r.faces, faces...)
	r.at = append(r.at, capturedAt)
	return nil
}

func (r *memoryRecorder) Records() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.at)
}

func TestSession_MatchesAreRecordedAndPublished(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return &domain.Detection{
			Faces: []domain.FaceResult{
				{FaceID: 1, MatchName: strPtr("Ana Torres"), MatchFound: true, Similarity: 0.875, Box: domain.BoundingBox{X: 10, Y: 10, Width: 40, Height: 40}},
				{FaceID: 2, Box: domain.BoundingBox{X: 100, Y: 10, Width: 40, Height: 40}},
			},
			Timestamp: time.Now(),
		}, nil
	})
	recorder := &memoryRecorder{}
	auditLogger := &audit.MemoryLogger{}
	f := newFixture(t, detector, WithRecorder(recorder), WithAuditLogger(auditLogger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := f.session.Subscribe(ctx)

	outcome, err := f.session.CaptureAndRecognize(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFaces, outcome)

	boxes := f.overlay.Boxes()
	require.Len(t, boxes, 2)
	assert.True(t, boxes[0].Matched)
	assert.Equal(t, "Ana Torres (87.5%)", boxes[0].Label)
	assert.False(t, boxes[1].Matched)

	detected := <-events
	assert.Equal(t, EventFacesDetected, detected.Type)
	assert.Equal(t, "cam-1", detected.CameraID)
	assert.Len(t, detected.Faces, 2)

	match := <-events
	assert.Equal(t, EventMatchFound, match.Type)
	require.Len(t, match.Faces, 1)
	assert.Equal(t, "Ana Torres", match.Faces[0].Name())

	recorder.mu.Lock()
	assert.Equal(t, "cam-1", recorder.camera)
	assert.Len(t, recorder.faces, 1)
	recorder.mu.Unlock()

	assert.Equal(t, 1, auditLogger.Count(audit.EventMatchFound))
	assert.Equal(t, 1, auditLogger.Count(audit.EventFacesDetected))
}

func TestSession_MatchTimestampUsesLocalClock(t *testing.T) {
	backendClock := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	localClock := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return &domain.Detection{
			Faces: []domain.FaceResult{
				{FaceID: 1, MatchName: strPtr("Ana Torres"), MatchFound: true, Similarity: 0.9, Box: domain.BoundingBox{Width: 40, Height: 40}},
			},
			Timestamp: backendClock,
		}, nil
	})
	recorder := &memoryRecorder{}
	f := newFixture(t, detector, WithRecorder(recorder))
	f.session.now = func() time.Time { return localClock }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := f.session.Subscribe(ctx)

	outcome, err := f.session.CaptureAndRecognize(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFaces, outcome)

	assert.Equal(t, EventFacesDetected, (<-events).Type)
	match := <-events
	require.Equal(t, EventMatchFound, match.Type)
	assert.Equal(t, localClock, match.Timestamp)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.at, 1)
	assert.Equal(t, localClock, recorder.at[0])
}

func TestSession_ClearedEventOnlyAfterFaces(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		if call == 2 {
			return faces(domain.BoundingBox{Width: 10, Height: 10}), nil
		}
		return &domain.Detection{}, nil
	})
	f := newFixture(t, detector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := f.session.Subscribe(ctx)

	for i := 0; i < 3; i++ {
		_, err := f.session.CaptureAndRecognize(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, EventFacesDetected, (<-events).Type)
	assert.Equal(t, EventFacesCleared, (<-events).Type)
	select {
	case e := <-events:
		t.Fatalf("unexpected event %s", e.Type)
	default:
	}
}

func TestSession_SubscribeClosesOnCancel(t *testing.T) {
	f := newFixture(t, newFakeDetector(nil))

	ctx, cancel := context.WithCancel(context.Background())
	events := f.session.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestSession_StartStopEvents(t *testing.T) {
	auditLogger := &audit.MemoryLogger{}
	f := newFixture(t, newFakeDetector(nil), WithAuditLogger(auditLogger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := f.session.Subscribe(ctx)

	require.NoError(t, f.session.Start(time.Hour))
	f.session.Stop()
	f.session.Stop()

	assert.Equal(t, EventStarted, (<-events).Type)
	assert.Equal(t, EventStopped, (<-events).Type)
	assert.Equal(t, 1, auditLogger.Count(audit.EventRecognitionStarted))
	assert.Equal(t, 1, auditLogger.Count(audit.EventRecognitionStopped))
}
