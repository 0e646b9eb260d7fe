package facefind

import (
	"fmt"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Normalize converts the wire envelope into a domain.Detection.
// success:false or a missing data object yields ErrUnsuccessful / ErrMissingData.
// Faces with a non-positive width or height are dropped.
func Normalize(resp *DetectResponse, now time.Time) (*domain.Detection, error) {
	if resp == nil {
		return nil, ErrMissingData
	}
	if !resp.Success {
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, resp.Error)
		}
		return nil, ErrUnsuccessful
	}
	if resp.Data == nil {
		return nil, ErrMissingData
	}

	faces := make([]domain.FaceResult, 0, len(resp.Data.Faces))
	for _, f := range resp.Data.Faces {
		if f.BBox.Width <= 0 || f.BBox.Height <= 0 {
			continue
		}
		faces = append(faces, domain.FaceResult{
			FaceID:     f.FaceID,
			MatchName:  normalizeName(f.BestMatchName),
			MatchFound: f.MatchFound,
			Similarity: normalizeSimilarity(f.SimilarityPercentage),
			Box: domain.BoundingBox{
				X:      f.BBox.X,
				Y:      f.BBox.Y,
				Width:  f.BBox.Width,
				Height: f.BBox.Height,
			},
		})
	}

	detected := resp.Data.FacesDetected
	if detected < len(faces) {
		detected = len(faces)
	}

	return &domain.Detection{
		Faces:         faces,
		FacesDetected: detected,
		Timestamp:     parseTimestamp(resp.Data.Timestamp, now),
	}, nil
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeSimilarity maps a 0-100 percentage to 0.0-1.0
func normalizeSimilarity(pct float64) float64 {
	switch {
	case pct <= 0:
		return 0
	case pct >= 100:
		return 1
	default:
		return pct / 100
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(raw string, fallback time.Time) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}
