package domain

import "time"

// AlertStatus tracks operator handling of an alert.
type AlertStatus string

const (
	AlertStatusPending      AlertStatus = "pending"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusDismissed    AlertStatus = "dismissed"
)

// Alert is raised when a camera sighting matches a person with an open case.
type Alert struct {
	ID         int         `json:"id,omitempty"`
	CameraID   string      `json:"camera_id"`
	CaseID     *int        `json:"case_id,omitempty"`
	PersonName string      `json:"person_name"`
	Similarity float64     `json:"similarity"`
	Box        BoundingBox `json:"bbox"`
	Status     AlertStatus `json:"status"`
	DetectedAt time.Time   `json:"detected_at"`
}

// Notification is an in-app message addressed to an operator.
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
