package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
	"github.com/saturnino-fabrica-de-software/facefind/internal/overlay"
	"github.com/saturnino-fabrica-de-software/facefind/internal/recognition"
)

const maxIntervalSeconds = 3600

// CameraLister lists cameras known to the backend
type CameraLister interface {
	List(ctx context.Context) ([]domain.Camera, error)
}

// Recognizer drives the per-camera recognition sessions
type Recognizer interface {
	Start(ctx context.Context, cameraID string, interval time.Duration) error
	Stop(cameraID string) error
	Capture(ctx context.Context, cameraID string) (recognition.Outcome, error)
	StatusOf(cameraID string) (recognition.Status, error)
	Status() []recognition.Status
	Overlay(cameraID string) (overlay.Overlay, error)
}

// pngOverlay is an overlay that can be rendered, like overlay.Canvas
type pngOverlay interface {
	PNG() ([]byte, error)
}

type CameraHandler struct {
	cameras    CameraLister
	recognizer Recognizer
	logger     *slog.Logger
}

func NewCameraHandler(cameras CameraLister, recognizer Recognizer, logger *slog.Logger) *CameraHandler {
	return &CameraHandler{
		cameras:    cameras,
		recognizer: recognizer,
		logger:     logger,
	}
}

// RecognitionResponse is the state of one camera session
type RecognitionResponse struct {
	CameraID        string              `json:"camera_id"`
	State           recognition.State   `json:"state"`
	IntervalSeconds float64             `json:"interval_seconds"`
	Pending         bool                `json:"pending"`
	LastTick        *time.Time          `json:"last_tick,omitempty"`
	Results         []domain.FaceResult `json:"results"`
	OverlaySize     domain.Size         `json:"overlay_size"`
}

type CameraResponse struct {
	domain.Camera
	Recognition *RecognitionResponse `json:"recognition,omitempty"`
}

type StartRequest struct {
	IntervalSeconds float64 `json:"interval_seconds"`
}

type CaptureResponse struct {
	Outcome     recognition.Outcome `json:"outcome"`
	Error       string              `json:"error,omitempty"`
	Recognition RecognitionResponse `json:"recognition"`
}

func toRecognitionResponse(s recognition.Status) RecognitionResponse {
	resp := RecognitionResponse{
		CameraID:        s.CameraID,
		State:           s.State,
		IntervalSeconds: s.Interval.Seconds(),
		Pending:         s.Pending,
		Results:         s.Results,
		OverlaySize:     s.OverlaySize,
	}
	if resp.Results == nil {
		resp.Results = []domain.FaceResult{}
	}
	if !s.LastTick.IsZero() {
		t := s.LastTick
		resp.LastTick = &t
	}
	return resp
}

// List GET /v1/cameras - backend cameras merged with local recognition state
func (h *CameraHandler) List(c *fiber.Ctx) error {
	cameras, err := h.cameras.List(c.UserContext())
	if err != nil {
		if mapped := middleware.FromBackend(err); mapped != nil {
			return mapped
		}
		return domain.ErrBackendUnavailable.WithError(err)
	}

	statuses := make(map[string]recognition.Status)
	for _, s := range h.recognizer.Status() {
		statuses[s.CameraID] = s
	}

	response := make([]CameraResponse, 0, len(cameras))
	for _, cam := range cameras {
		item := CameraResponse{Camera: cam}
		if s, ok := statuses[strconv.Itoa(cam.ID)]; ok {
			r := toRecognitionResponse(s)
			item.Recognition = &r
		}
		response = append(response, item)
	}

	return c.JSON(fiber.Map{
		"cameras": response,
	})
}

// Start POST /v1/cameras/:id/recognition/start
func (h *CameraHandler) Start(c *fiber.Ctx) error {
	cameraID := strings.TrimSpace(c.Params("id"))

	var req StartRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.ErrBadRequest.WithError(err)
		}
	}

	if req.IntervalSeconds < 0 || req.IntervalSeconds > maxIntervalSeconds ||
		(req.IntervalSeconds > 0 && req.IntervalSeconds < 1) {
		return domain.ErrInvalidInterval
	}

	// zero keeps the configured default
	interval := time.Duration(req.IntervalSeconds * float64(time.Second))

	if err := h.recognizer.Start(c.UserContext(), cameraID, interval); err != nil {
		return err
	}

	h.logger.Info("recognition start requested",
		slog.String("camera_id", cameraID),
		slog.Duration("interval", interval),
		slog.Int("user_id", userID(c)),
	)

	return h.respondStatus(c, cameraID)
}

// Stop POST /v1/cameras/:id/recognition/stop
func (h *CameraHandler) Stop(c *fiber.Ctx) error {
	cameraID := strings.TrimSpace(c.Params("id"))

	if err := h.recognizer.Stop(cameraID); err != nil {
		return err
	}

	h.logger.Info("recognition stop requested",
		slog.String("camera_id", cameraID),
		slog.Int("user_id", userID(c)),
	)

	return h.respondStatus(c, cameraID)
}

// Capture POST /v1/cameras/:id/recognition/capture - single manual shot
func (h *CameraHandler) Capture(c *fiber.Ctx) error {
	cameraID := strings.TrimSpace(c.Params("id"))

	outcome, err := h.recognizer.Capture(c.UserContext(), cameraID)
	resp := CaptureResponse{Outcome: outcome}
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return err
		}
		// detection failures were already applied as an empty result
		resp.Error = err.Error()
	}

	status, err := h.recognizer.StatusOf(cameraID)
	if err != nil {
		return err
	}
	resp.Recognition = toRecognitionResponse(status)

	return c.JSON(resp)
}

// Status GET /v1/cameras/:id/recognition
func (h *CameraHandler) Status(c *fiber.Ctx) error {
	return h.respondStatus(c, strings.TrimSpace(c.Params("id")))
}

// Overlay GET /v1/cameras/:id/overlay.png
func (h *CameraHandler) Overlay(c *fiber.Ctx) error {
	ov, err := h.recognizer.Overlay(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return err
	}

	renderable, ok := ov.(pngOverlay)
	if !ok {
		return domain.ErrNotFound
	}

	png, err := renderable.PNG()
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}

func (h *CameraHandler) respondStatus(c *fiber.Ctx, cameraID string) error {
	status, err := h.recognizer.StatusOf(cameraID)
	if err != nil {
		return err
	}
	return c.JSON(toRecognitionResponse(status))
}

func userID(c *fiber.Ctx) int {
	session, err := middleware.GetSession(c)
	if err != nil {
		return 0
	}
	return session.UserID
}
