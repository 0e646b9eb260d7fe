package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

var (
	MatchedColor   = color.RGBA{R: 0, G: 200, B: 83, A: 255}
	UnmatchedColor = color.RGBA{R: 229, G: 57, B: 53, A: 255}
	labelText      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	strokeWidth  = 2
	labelPadding = 3
)

// Canvas is an in-memory RGBA overlay. The recognition loop draws on it and
// HTTP handlers read it concurrently.
type Canvas struct {
	mu    sync.RWMutex
	size  domain.Size
	img   *image.RGBA
	boxes []Box
}

func NewCanvas(size domain.Size) *Canvas {
	return &Canvas{
		size: size,
		img:  image.NewRGBA(image.Rect(0, 0, size.Width, size.Height)),
	}
}

func (c *Canvas) Size() domain.Size {
	return c.size
}

// Draw replaces whatever was on the canvas with the given boxes.
func (c *Canvas) Draw(boxes []Box) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLocked()
	c.boxes = append([]Box(nil), boxes...)

	for _, b := range boxes {
		col := UnmatchedColor
		if b.Matched {
			col = MatchedColor
		}
		rect := toRect(b.BoundingBox)
		c.strokeRect(rect, col)
		c.drawLabel(rect, b.Label, col)
	}
}

func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// Boxes returns the boxes currently drawn.
func (c *Canvas) Boxes() []Box {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Box(nil), c.boxes...)
}

// PNG encodes the current overlay with transparency.
func (c *Canvas) PNG() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// At returns the overlay pixel at (x, y).
func (c *Canvas) At(x, y int) color.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.img.At(x, y)
}

func (c *Canvas) clearLocked() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	c.boxes = nil
}

func (c *Canvas) strokeRect(r image.Rectangle, col color.RGBA) {
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+strokeWidth),
		image.Rect(r.Min.X, r.Max.Y-strokeWidth, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+strokeWidth, r.Max.Y),
		image.Rect(r.Max.X-strokeWidth, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(c.img, e.Intersect(c.img.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawLabel puts the label on a filled strip above the box, or inside the top
// edge when the box touches the top of the canvas.
func (c *Canvas) drawLabel(r image.Rectangle, label string, col color.RGBA) {
	if label == "" {
		return
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, label).Ceil() + 2*labelPadding
	height := face.Metrics().Height.Ceil() + labelPadding

	top := r.Min.Y - height
	if top < 0 {
		top = r.Min.Y
	}
	strip := image.Rect(r.Min.X, top, r.Min.X+width, top+height)
	draw.Draw(c.img, strip.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(labelText),
		Face: face,
		Dot:  fixed.P(strip.Min.X+labelPadding, strip.Min.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(label)
}

func toRect(b domain.BoundingBox) image.Rectangle {
	return image.Rect(
		int(math.Round(b.X)),
		int(math.Round(b.Y)),
		int(math.Round(b.X+b.Width)),
		int(math.Round(b.Y+b.Height)),
	)
}
