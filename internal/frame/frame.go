package frame

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// DefaultJPEGQuality matches the quality used for uploads to the detection endpoint.
const DefaultJPEGQuality = 85

var (
	ErrNotReady     = errors.New("frame source not ready")
	ErrDisconnected = errors.New("frame source disconnected")
	ErrEmptyFrame   = errors.New("frame has zero dimensions")
)

// Source is a live camera feed able to produce stills at its natural resolution.
type Source interface {
	// Connected is false once the feed is gone; a running session stops when it sees this.
	Connected() bool
	// Ready is false while no frame with non-zero dimensions is available yet.
	Ready() bool
	NaturalSize() domain.Size
	Snapshot(ctx context.Context) (image.Image, error)
}

// Prober is implemented by sources that need a first fetch before they become ready.
type Prober interface {
	Probe(ctx context.Context) error
}

// Frame is one captured still, discarded after its tick completes.
type Frame struct {
	Image *image.RGBA
	Size  domain.Size
}

// Capture draws the current source frame into an offscreen bitmap at the
// source's natural resolution.
func Capture(ctx context.Context, src Source) (*Frame, error) {
	if !src.Connected() {
		return nil, ErrDisconnected
	}
	natural := src.NaturalSize()
	if !src.Ready() || natural.IsZero() {
		return nil, ErrNotReady
	}

	img, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, ErrEmptyFrame
	}

	dst := image.NewRGBA(image.Rect(0, 0, natural.Width, natural.Height))
	if bounds.Dx() == natural.Width && bounds.Dy() == natural.Height {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	} else {
		// the feed changed resolution between probe and snapshot
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}

	return &Frame{Image: dst, Size: natural}, nil
}

// EncodeJPEG compresses a frame for upload.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps JPEG bytes the way the detection endpoint expects them.
func DataURI(jpegBytes []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegBytes)
}

// Decode decodes JPEG, PNG or BMP bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// SizeOf returns the pixel dimensions of an image.
func SizeOf(img image.Image) domain.Size {
	b := img.Bounds()
	return domain.Size{Width: b.Dx(), Height: b.Dy()}
}
