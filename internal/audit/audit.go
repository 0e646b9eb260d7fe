package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of auditable event
type EventType string

const (
	EventRecognitionStarted EventType = "RECOGNITION_STARTED"
	EventRecognitionStopped EventType = "RECOGNITION_STOPPED"
	EventFacesDetected      EventType = "FACES_DETECTED"
	EventMatchFound         EventType = "MATCH_FOUND"
	EventDetectionFailed    EventType = "DETECTION_FAILED"
	EventFaceSearched       EventType = "FACE_SEARCHED"
)

// Event represents an audit event. Matches involve personal data, so every
// start/stop and every positive identification is recorded.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	CameraID   string            `json:"camera_id,omitempty"`
	EventType  EventType         `json:"event_type"`
	PersonName string            `json:"person_name,omitempty"`
	Actor      string            `json:"actor,omitempty"`
	Provider   string            `json:"provider"`
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, event Event) error
}

// SlogLogger implements Logger using slog
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a new audit logger using slog
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{
		logger: logger.With("component", "audit"),
	}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) error {
	event = withDefaults(event)

	eventJSON, err := json.Marshal(event)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to marshal audit event",
			slog.String("error", err.Error()),
			slog.String("event_type", string(event.EventType)),
		)
		return err
	}

	l.logger.InfoContext(ctx, "audit_event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.EventType)),
		slog.String("camera_id", event.CameraID),
		slog.String("provider", event.Provider),
		slog.Bool("success", event.Success),
		slog.String("event_data", string(eventJSON)),
	)

	return nil
}

// NoOpLogger is a logger that does nothing (for testing or when audit is disabled)
type NoOpLogger struct{}

// Log does nothing and returns nil
func (l *NoOpLogger) Log(_ context.Context, _ Event) error {
	return nil
}

// MemoryLogger keeps events in memory. Used by tests of packages that audit.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
}

// Log appends the event
func (l *MemoryLogger) Log(_ context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, withDefaults(event))
	return nil
}

// Events returns a copy of the recorded events
func (l *MemoryLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Count returns how many events of the given type were recorded
func (l *MemoryLogger) Count(eventType EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

func withDefaults(event Event) Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return event
}
