package alert

import (
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SeverityFor grades a match by similarity
func SeverityFor(similarity float64) Severity {
	switch {
	case similarity >= 0.9:
		return SeverityCritical
	case similarity >= 0.75:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

const EventAlertTriggered = "alert.triggered"

// Payload is what notifiers deliver
type Payload struct {
	Type      string       `json:"type"`
	Severity  Severity     `json:"severity"`
	Alert     domain.Alert `json:"data"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewPayload wraps an alert for delivery
func NewPayload(a domain.Alert) Payload {
	return Payload{
		Type:      EventAlertTriggered,
		Severity:  SeverityFor(a.Similarity),
		Alert:     a,
		Timestamp: a.DetectedAt,
	}
}

// Match is a set of matched faces seen by one camera at one instant
type Match struct {
	CameraID string
	Faces    []domain.FaceResult
	At       time.Time
}
