package recognition

import (
	"context"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// EventType identifies a recognition event
type EventType string

const (
	EventStarted       EventType = "recognition.started"
	EventStopped       EventType = "recognition.stopped"
	EventFacesDetected EventType = "faces.detected"
	EventFacesCleared  EventType = "faces.cleared"
	EventMatchFound    EventType = "match.found"
)

// Event is published to subscribers after every state change of a session
type Event struct {
	Type      EventType           `json:"type"`
	CameraID  string              `json:"camera_id"`
	Faces     []domain.FaceResult `json:"faces,omitempty"`
	Reason    string              `json:"reason,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// subscriberBuffer is the channel size per subscriber; a full buffer drops events
const subscriberBuffer = 32

// Subscribe returns a stream of the session events until ctx is done.
// Slow subscribers lose events instead of blocking the loop.
func (s *Session) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subs, id)
		close(ch)
		s.subMu.Unlock()
	}()

	return ch
}

func (s *Session) publish(event Event) {
	event.CameraID = s.cameraID
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
			s.logger.Debug("dropping event for slow subscriber",
				slog.String("event", string(event.Type)),
			)
		}
	}
}
