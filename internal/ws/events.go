package ws

import (
	"time"
)

type EventType string

const (
	EventRecognitionStarted EventType = "recognition.started"
	EventRecognitionStopped EventType = "recognition.stopped"
	EventFacesDetected      EventType = "faces.detected"
	EventFacesCleared       EventType = "faces.cleared"
	EventMatchFound         EventType = "match.found"
	EventAlert              EventType = "alert.triggered"
)

// AllCameras is the topic that receives the events of every camera
const AllCameras = "*"

type Event struct {
	Type      EventType   `json:"type"`
	CameraID  string      `json:"camera_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
