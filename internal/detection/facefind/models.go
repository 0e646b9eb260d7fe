package facefind

// DetectRequest is the body for POST /detection/detect-faces
type DetectRequest struct {
	Image string `json:"image"` // data URI: data:image/jpeg;base64,...
}

// DetectResponse is the envelope returned by the backend.
// best_match_name can be null, absent or blank depending on the backend version.
type DetectResponse struct {
	Success bool        `json:"success"`
	Data    *DetectData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DetectData carries the faces found in one frame
type DetectData struct {
	Faces         []DetectedFace `json:"faces"`
	FacesDetected int            `json:"faces_detected"`
	Timestamp     string         `json:"timestamp"`
}

// DetectedFace is a single face as sent on the wire
type DetectedFace struct {
	FaceID               int     `json:"face_id"`
	BestMatchName        *string `json:"best_match_name"`
	MatchFound           bool    `json:"match_found"`
	SimilarityPercentage float64 `json:"similarity_percentage"` // 0-100
	BBox                 BBox    `json:"bbox"`
}

// BBox is in natural pixel coordinates of the uploaded frame
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
