package domain

// Camera is a camera feed registered in the FaceFind backend.
type Camera struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	SnapshotURL string   `json:"snapshot_url,omitempty"`
	Active      bool     `json:"active"`
}
