package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sighting is a persisted record of a matched face seen by a camera.
type Sighting struct {
	ID         uuid.UUID   `json:"id"`
	CameraID   string      `json:"camera_id"`
	FaceID     int         `json:"face_id"`
	PersonName string      `json:"person_name"`
	Similarity float64     `json:"similarity"`
	Box        BoundingBox `json:"bbox"`
	CapturedAt time.Time   `json:"captured_at"`
}
