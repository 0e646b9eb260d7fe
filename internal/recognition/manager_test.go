package recognition

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/frame"
	"github.com/saturnino-fabrica-de-software/facefind/internal/overlay"
)

type eventCollector struct {
	mu     sync.Mutex
	events []Event
}

func (c *eventCollector) sink(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *eventCollector) types() []EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestManager(detector *fakeDetector, opts ...ManagerOption) *Manager {
	opts = append([]ManagerOption{WithManagerLogger(testLogger())}, opts...)
	return NewManager(detector, Config{Interval: 20 * time.Millisecond}, opts...)
}

func staticCamera() (*frame.StaticSource, *overlay.Recorder) {
	return frame.NewStaticSource(image.NewRGBA(image.Rect(0, 0, 64, 48))),
		overlay.NewRecorder(domain.Size{Width: 64, Height: 48})
}

func TestManager_UnknownCamera(t *testing.T) {
	m := newTestManager(newFakeDetector(nil))

	assert.ErrorIs(t, m.Start(context.Background(), "nope", time.Second), domain.ErrCameraNotRegistered)
	assert.ErrorIs(t, m.Stop("nope"), domain.ErrCameraNotRegistered)
	assert.ErrorIs(t, m.Unregister("nope"), domain.ErrCameraNotRegistered)

	_, err := m.Capture(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrCameraNotRegistered)

	_, err = m.StatusOf("nope")
	assert.ErrorIs(t, err, domain.ErrCameraNotRegistered)

	_, err = m.Overlay("nope")
	assert.ErrorIs(t, err, domain.ErrCameraNotRegistered)

	_, ok := m.Session("nope")
	assert.False(t, ok)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := newTestManager(newFakeDetector(nil))
	defer m.StopAll()

	src1, ov1 := staticCamera()
	src2, ov2 := staticCamera()
	m.Register("cam-1", src1, ov1)
	m.Register("cam-2", src2, ov2)

	require.NoError(t, m.Start(context.Background(), "cam-1", time.Hour))

	s1, _ := m.Session("cam-1")
	s2, _ := m.Session("cam-2")
	assert.Equal(t, StateRunning, s1.State())
	assert.Equal(t, StateInactive, s2.State())
	assert.Equal(t, 1, m.Running())

	require.NoError(t, m.Stop("cam-1"))
	assert.Equal(t, 0, m.Running())
}

func TestManager_StatusOrderedByCamera(t *testing.T) {
	m := newTestManager(newFakeDetector(nil))
	defer m.StopAll()

	for _, id := range []string{"cam-3", "cam-1", "cam-2"} {
		src, ov := staticCamera()
		m.Register(id, src, ov)
	}
	require.NoError(t, m.Start(context.Background(), "cam-2", 5*time.Second))

	status := m.Status()

	require.Len(t, status, 3)
	assert.Equal(t, "cam-1", status[0].CameraID)
	assert.Equal(t, "cam-2", status[1].CameraID)
	assert.Equal(t, "cam-3", status[2].CameraID)
	assert.Equal(t, StateRunning, status[1].State)
	assert.Equal(t, 5*time.Second, status[1].Interval)
	assert.Equal(t, domain.Size{Width: 64, Height: 48}, status[0].OverlaySize)
}

func TestManager_ForwardsEventsToSinks(t *testing.T) {
	collector := &eventCollector{}
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return faces(domain.BoundingBox{Width: 10, Height: 10}), nil
	})
	m := newTestManager(detector, WithSink(collector.sink))

	src, ov := staticCamera()
	m.Register("cam-1", src, ov)

	outcome, err := m.Capture(context.Background(), "cam-1")
	require.NoError(t, err)
	require.Equal(t, OutcomeFaces, outcome)

	require.NoError(t, m.Start(context.Background(), "cam-1", time.Hour))
	m.StopAll()

	types := collector.types()
	assert.Contains(t, types, EventFacesDetected)
	assert.Contains(t, types, EventStarted)
	assert.Equal(t, EventStopped, types[len(types)-1])
	assert.Empty(t, m.Status())
}

func TestManager_RegisterReplaces(t *testing.T) {
	m := newTestManager(newFakeDetector(nil))
	defer m.StopAll()

	src, ov := staticCamera()
	first := m.Register("cam-1", src, ov)
	require.NoError(t, m.Start(context.Background(), "cam-1", time.Hour))

	src2, ov2 := staticCamera()
	second := m.Register("cam-1", src2, ov2)

	assert.Equal(t, StateInactive, first.State())
	assert.Equal(t, StateInactive, second.State())
	got, ok := m.Session("cam-1")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestManager_Unregister(t *testing.T) {
	m := newTestManager(newFakeDetector(nil))

	src, ov := staticCamera()
	s := m.Register("cam-1", src, ov)
	require.NoError(t, m.Start(context.Background(), "cam-1", time.Hour))

	require.NoError(t, m.Unregister("cam-1"))

	assert.Equal(t, StateInactive, s.State())
	_, ok := m.Session("cam-1")
	assert.False(t, ok)
}

func TestManager_StartLearnsSnapshotSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 24))))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	detector := newFakeDetector(nil)
	m := newTestManager(detector)
	defer m.StopAll()

	source := frame.NewSnapshotSource(frame.DefaultSnapshotConfig(server.URL))
	require.False(t, source.Ready())
	m.Register("cam-1", source, overlay.NewRecorder(domain.Size{Width: 32, Height: 24}))

	require.NoError(t, m.Start(context.Background(), "cam-1", time.Hour))

	assert.True(t, source.Ready())
	select {
	case <-detector.started:
	case <-time.After(time.Second):
		t.Fatal("first tick did not reach the detector")
	}
}

func TestManager_CaptureUnreachableCamera(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	m := newTestManager(newFakeDetector(nil))
	defer m.StopAll()

	source := frame.NewSnapshotSource(frame.DefaultSnapshotConfig(server.URL))
	m.Register("cam-1", source, overlay.NewRecorder(domain.Size{Width: 32, Height: 24}))

	outcome, err := m.Capture(context.Background(), "cam-1")

	assert.Equal(t, OutcomeSkipped, outcome)
	assert.ErrorIs(t, err, domain.ErrSourceDisconnected)
}

// flakyCamera serves a PNG still while up and 503 otherwise
func flakyCamera(t *testing.T, up bool) (*httptest.Server, *atomic.Bool, *atomic.Int32) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 24))))

	var online atomic.Bool
	var hits atomic.Int32
	online.Store(up)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !online.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)

	return server, &online, &hits
}

func TestManager_TickPicksUpCameraThatWasDownAtStart(t *testing.T) {
	server, online, hits := flakyCamera(t, false)

	detector := newFakeDetector(nil)
	m := newTestManager(detector)
	defer m.StopAll()

	cfg := frame.DefaultSnapshotConfig(server.URL)
	cfg.MaxFailures = 1000
	source := frame.NewSnapshotSource(cfg)
	m.Register("cam-1", source, overlay.NewRecorder(domain.Size{Width: 32, Height: 24}))

	require.NoError(t, m.Start(context.Background(), "cam-1", 10*time.Millisecond))
	require.False(t, source.Ready())

	// a few ticks keep hitting the camera while it is down
	require.Eventually(t, func() bool {
		return hits.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, detector.Calls())

	online.Store(true)

	select {
	case <-detector.started:
	case <-time.After(time.Second):
		t.Fatal("camera came back but no tick reached the detector")
	}
	assert.True(t, source.Ready())
	st, err := m.StatusOf("cam-1")
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st.State)
}

func TestManager_TickGivesUpOnUnreachableCamera(t *testing.T) {
	server, _, _ := flakyCamera(t, false)

	m := newTestManager(newFakeDetector(nil))
	defer m.StopAll()

	source := frame.NewSnapshotSource(frame.DefaultSnapshotConfig(server.URL))
	m.Register("cam-1", source, overlay.NewRecorder(domain.Size{Width: 32, Height: 24}))

	require.NoError(t, m.Start(context.Background(), "cam-1", 10*time.Millisecond))

	require.Eventually(t, func() bool {
		st, err := m.StatusOf("cam-1")
		return err == nil && st.State == StateInactive
	}, time.Second, 5*time.Millisecond)
	assert.False(t, source.Connected())
}

func TestManager_RestartAfterDisconnect(t *testing.T) {
	server, online, _ := flakyCamera(t, true)

	detector := newFakeDetector(nil)
	m := newTestManager(detector)
	defer m.StopAll()

	source := frame.NewSnapshotSource(frame.DefaultSnapshotConfig(server.URL))
	m.Register("cam-1", source, overlay.NewRecorder(domain.Size{Width: 32, Height: 24}))
	s, ok := m.Session("cam-1")
	require.True(t, ok)

	require.NoError(t, m.Start(context.Background(), "cam-1", 10*time.Millisecond))
	<-detector.started

	online.Store(false)
	require.Eventually(t, func() bool {
		return s.State() == StateInactive
	}, time.Second, 5*time.Millisecond)
	s.Wait()
	require.False(t, source.Connected())
	require.True(t, source.Ready(), "a disconnected camera keeps its last known size")

	online.Store(true)

	t.Run("start revives the camera", func(t *testing.T) {
		calls := detector.Calls()
		require.NoError(t, m.Start(context.Background(), "cam-1", 10*time.Millisecond))
		assert.True(t, source.Connected())
		require.Eventually(t, func() bool {
			return detector.Calls() > calls
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, m.Stop("cam-1"))
		s.Wait()
	})

	t.Run("capture revives the camera", func(t *testing.T) {
		online.Store(false)
		for i := 0; i < 3; i++ {
			outcome, _ := m.Capture(context.Background(), "cam-1")
			require.NotEqual(t, OutcomeFaces, outcome)
		}
		require.False(t, source.Connected())

		online.Store(true)
		outcome, err := m.Capture(context.Background(), "cam-1")

		require.NoError(t, err)
		assert.Equal(t, OutcomeEmpty, outcome)
		assert.True(t, source.Connected())
	})
}

func TestManager_StopAllWaitsForInFlightTicks(t *testing.T) {
	detector := newFakeDetector(func(call int) (*domain.Detection, error) {
		return &domain.Detection{Faces: []domain.FaceResult{
			{FaceID: 1, MatchName: strPtr("Ana Torres"), MatchFound: true, Similarity: 0.9, Box: domain.BoundingBox{Width: 10, Height: 10}},
		}}, nil
	})
	recorder := &memoryRecorder{entered: make(chan struct{}, 1), block: make(chan struct{})}
	m := newTestManager(detector, WithSightingRecorder(recorder))

	source, rec := staticCamera()
	m.Register("cam-1", source, rec)
	require.NoError(t, m.Start(context.Background(), "cam-1", time.Hour))

	select {
	case <-recorder.entered:
	case <-time.After(time.Second):
		t.Fatal("match was never recorded")
	}

	stopped := make(chan struct{})
	go func() {
		m.StopAll()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("StopAll returned while a tick was still recording")
	case <-time.After(50 * time.Millisecond):
	}

	close(recorder.block)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("StopAll did not return")
	}
	assert.Equal(t, 1, recorder.Records())
	assert.Empty(t, m.Status())
}
