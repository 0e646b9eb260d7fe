package domain

import "time"

// Size representa as dimensões em pixels de um frame ou de uma superfície de desenho
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether either dimension is missing.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// BoundingBox localiza uma face em coordenadas de pixel do frame capturado
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FaceResult é uma face detectada em um tick de reconhecimento
type FaceResult struct {
	FaceID     int         `json:"face_id"`
	MatchName  *string     `json:"match_name,omitempty"`
	MatchFound bool        `json:"match_found"`
	Similarity float64     `json:"similarity"` // 0.0 - 1.0
	Box        BoundingBox `json:"bbox"`
}

// Name returns the matched person name or an empty string.
func (f FaceResult) Name() string {
	if f.MatchName == nil {
		return ""
	}
	return *f.MatchName
}

// IsMatch reports whether the face was matched to a named person.
func (f FaceResult) IsMatch() bool {
	return f.MatchFound && f.MatchName != nil
}

// Detection é o resultado normalizado de uma chamada ao detector
type Detection struct {
	Faces         []FaceResult `json:"faces"`
	FacesDetected int          `json:"faces_detected"`
	Timestamp     time.Time    `json:"timestamp"`
}
