package overlay

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Overlay is a transparent drawing surface positioned over a camera view.
type Overlay interface {
	// Size is the displayed size; boxes arrive already scaled to it.
	Size() domain.Size
	Draw(boxes []Box)
	Clear()
}

// Box is a bounding box in displayed coordinates ready to be drawn.
type Box struct {
	domain.BoundingBox
	Label   string `json:"label"`
	Matched bool   `json:"matched"`
}

// Scale maps a box from natural (captured) pixel space to displayed space,
// one factor per axis.
func Scale(box domain.BoundingBox, natural, displayed domain.Size) domain.BoundingBox {
	if natural.IsZero() || displayed.IsZero() {
		return box
	}

	sx := float64(displayed.Width) / float64(natural.Width)
	sy := float64(displayed.Height) / float64(natural.Height)

	return domain.BoundingBox{
		X:      box.X * sx,
		Y:      box.Y * sy,
		Width:  box.Width * sx,
		Height: box.Height * sy,
	}
}

// Label renders "<name> (<pct>%)" for matched faces and "Unknown" otherwise.
func Label(face domain.FaceResult) string {
	if !face.IsMatch() {
		return "Unknown"
	}
	return fmt.Sprintf("%s (%.1f%%)", face.Name(), face.Similarity*100)
}

// BoxesFor converts a tick's faces into drawable boxes.
func BoxesFor(faces []domain.FaceResult, natural, displayed domain.Size) []Box {
	boxes := make([]Box, 0, len(faces))
	for _, f := range faces {
		boxes = append(boxes, Box{
			BoundingBox: Scale(f.Box, natural, displayed),
			Label:       Label(f),
			Matched:     f.IsMatch(),
		})
	}
	return boxes
}
