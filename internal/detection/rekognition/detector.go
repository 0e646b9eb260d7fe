package rekognition

import (
	"context"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/facefind/internal/audit"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/frame"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
	// cropPadding widens each face crop so SearchFacesByImage still finds a face
	cropPadding = 0.2
)

// Detector implements detection with DetectFaces followed by one
// SearchFacesByImage per detected face against the case collection
type Detector struct {
	api         API
	config      Config
	auditLogger audit.Logger
	now         func() time.Time
}

// Option defines optional configuration for Detector
type Option func(*Detector)

// WithAuditLogger sets the audit logger for the detector
func WithAuditLogger(logger audit.Logger) Option {
	return func(d *Detector) {
		d.auditLogger = logger
	}
}

// New creates a detector with a real AWS client
func New(ctx context.Context, cfg Config, opts ...Option) (*Detector, error) {
	api, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return NewDetector(api, cfg, opts...), nil
}

// NewDetector creates a detector over any API implementation
func NewDetector(api API, cfg Config, opts ...Option) *Detector {
	defaults := DefaultConfig()
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = defaults.MatchThreshold
	}
	if cfg.MaxFaces <= 0 {
		cfg.MaxFaces = defaults.MaxFaces
	}

	d := &Detector{
		api:    api,
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func validateImage(img []byte) error {
	if len(img) == 0 {
		return ErrInvalidImage
	}
	if len(img) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(img), minImageSize)
	}
	if len(img) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(img), maxImageSize)
	}
	return nil
}

// Detect finds faces and searches each one in the collection.
// Bounding boxes are converted from Rekognition ratios to natural pixels.
func (d *Detector) Detect(ctx context.Context, jpeg []byte, size domain.Size) (*domain.Detection, error) {
	if err := validateImage(jpeg); err != nil {
		d.logAudit(ctx, audit.EventDetectionFailed, err, map[string]string{
			"image_size": strconv.Itoa(len(jpeg)),
		})
		return nil, err
	}

	output, err := d.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: jpeg},
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		err = mapError("detect faces", err)
		d.logAudit(ctx, audit.EventDetectionFailed, err, nil)
		return nil, err
	}

	detection := &domain.Detection{
		Faces:         make([]domain.FaceResult, 0, len(output.FaceDetails)),
		FacesDetected: len(output.FaceDetails),
		Timestamp:     d.now(),
	}
	if len(output.FaceDetails) == 0 {
		return detection, nil
	}

	img, err := frame.Decode(jpeg)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if size.IsZero() {
		size = frame.SizeOf(img)
	}

	for i, detail := range output.FaceDetails {
		if i >= d.config.MaxFaces {
			break
		}
		if detail.BoundingBox == nil {
			continue
		}

		face := domain.FaceResult{
			FaceID: i + 1,
			Box:    toPixels(detail.BoundingBox, size),
		}

		match, err := d.search(ctx, img, face.Box)
		if err != nil {
			return nil, err
		}
		if match != nil {
			face.MatchName = externalIDToName(aws.ToString(match.Face.ExternalImageId))
			face.MatchFound = face.MatchName != nil
			face.Similarity = float64(aws.ToFloat32(match.Similarity)) / 100
		}

		detection.Faces = append(detection.Faces, face)
	}

	d.logAudit(ctx, audit.EventFaceSearched, nil, map[string]string{
		"faces_count": strconv.Itoa(len(detection.Faces)),
		"collection":  d.config.CollectionID,
	})

	return detection, nil
}

// search returns the best collection match for the face, or nil
func (d *Detector) search(ctx context.Context, img image.Image, box domain.BoundingBox) (*types.FaceMatch, error) {
	crop, err := frame.EncodeJPEG(cropFace(img, box), frame.DefaultJPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("encode face crop: %w", err)
	}

	output, err := d.api.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(d.config.CollectionID),
		Image:              &types.Image{Bytes: crop},
		FaceMatchThreshold: aws.Float32(d.config.MatchThreshold),
		MaxFaces:           aws.Int32(1),
	})
	if err != nil {
		if isNoFace(err) {
			return nil, nil
		}
		return nil, mapError("search faces", err)
	}

	if output == nil || len(output.FaceMatches) == 0 || output.FaceMatches[0].Face == nil {
		return nil, nil
	}
	return &output.FaceMatches[0], nil
}

func (d *Detector) logAudit(ctx context.Context, eventType audit.EventType, err error, metadata map[string]string) {
	if d.auditLogger == nil {
		return
	}

	event := audit.Event{
		EventType: eventType,
		Provider:  "rekognition",
		Success:   err == nil,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}

	_ = d.auditLogger.Log(ctx, event)
}

func clampRatio(v float32) float64 {
	return math.Min(math.Max(float64(v), 0), 1)
}

// toPixels converts a ratio bounding box into natural pixel coordinates
func toPixels(bb *types.BoundingBox, size domain.Size) domain.BoundingBox {
	left := clampRatio(aws.ToFloat32(bb.Left))
	top := clampRatio(aws.ToFloat32(bb.Top))
	width := math.Min(clampRatio(aws.ToFloat32(bb.Width)), 1-left)
	height := math.Min(clampRatio(aws.ToFloat32(bb.Height)), 1-top)

	w := float64(size.Width)
	h := float64(size.Height)
	return domain.BoundingBox{
		X:      left * w,
		Y:      top * h,
		Width:  width * w,
		Height: height * h,
	}
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropFace cuts the face plus padding out of the frame
func cropFace(img image.Image, box domain.BoundingBox) image.Image {
	si, ok := img.(subImager)
	if !ok {
		return img
	}

	padX := box.Width * cropPadding
	padY := box.Height * cropPadding
	r := image.Rect(
		int(math.Floor(box.X-padX)),
		int(math.Floor(box.Y-padY)),
		int(math.Ceil(box.X+box.Width+padX)),
		int(math.Ceil(box.Y+box.Height+padY)),
	).Intersect(img.Bounds())
	if r.Empty() {
		return img
	}

	return si.SubImage(r)
}

// externalIDToName turns "Ana_Torres" back into "Ana Torres"
func externalIDToName(id string) *string {
	name := strings.TrimSpace(strings.ReplaceAll(id, "_", " "))
	if name == "" {
		return nil
	}
	return &name
}
