package admin

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// CameraStore manages cameras in the backend
type CameraStore interface {
	Get(ctx context.Context, id int) (*domain.Camera, error)
	Create(ctx context.Context, input backend.CameraInput) (*domain.Camera, error)
	Update(ctx context.Context, id int, input backend.CameraInput) (*domain.Camera, error)
	Delete(ctx context.Context, id int) error
}

// CameraSyncer keeps the recognition sessions in step with backend edits.
// Sync reports whether the camera now has a session.
type CameraSyncer interface {
	Sync(camera domain.Camera) bool
	Remove(cameraID int)
}

type CamerasHandler struct {
	cameras CameraStore
	syncer  CameraSyncer
	logger  *slog.Logger
}

// NewCamerasHandler creates the handler; syncer may be nil
func NewCamerasHandler(cameras CameraStore, syncer CameraSyncer, logger *slog.Logger) *CamerasHandler {
	return &CamerasHandler{
		cameras: cameras,
		syncer:  syncer,
		logger:  logger,
	}
}

type CameraRequest struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	SnapshotURL string   `json:"snapshot_url"`
	Active      *bool    `json:"active"`
}

type CameraResponse struct {
	domain.Camera
	Registered bool `json:"registered"`
}

func (r CameraRequest) input() (backend.CameraInput, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return backend.CameraInput{}, domain.ErrValidationFailed
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return backend.CameraInput{}, domain.ErrValidationFailed
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return backend.CameraInput{}, domain.ErrValidationFailed
	}

	snapshot := strings.TrimSpace(r.SnapshotURL)
	if snapshot != "" {
		u, err := url.Parse(snapshot)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return backend.CameraInput{}, domain.ErrValidationFailed
		}
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return backend.CameraInput{
		Nombre:    name,
		Ubicacion: strings.TrimSpace(r.Location),
		Latitud:   r.Latitude,
		Longitud:  r.Longitude,
		URL:       snapshot,
		Activa:    active,
	}, nil
}

func (h *CamerasHandler) respond(camera *domain.Camera) CameraResponse {
	resp := CameraResponse{Camera: *camera}
	if h.syncer != nil {
		resp.Registered = h.syncer.Sync(*camera)
	}
	return resp
}

// Get GET /v1/admin/cameras/:id
func (h *CamerasHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	camera, err := h.cameras.Get(c.UserContext(), id)
	if err != nil {
		return backendError(h.logger, err, "get camera", domain.ErrCameraNotFound)
	}

	return c.JSON(camera)
}

// Create POST /v1/admin/cameras
func (h *CamerasHandler) Create(c *fiber.Ctx) error {
	var req CameraRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	input, err := req.input()
	if err != nil {
		return err
	}

	created, err := h.cameras.Create(c.UserContext(), input)
	if err != nil {
		return backendError(h.logger, err, "create camera", nil)
	}

	h.logger.Info("camera created", "camera_id", created.ID, "admin_id", adminID(c))
	return c.Status(fiber.StatusCreated).JSON(h.respond(created))
}

// Update PUT /v1/admin/cameras/:id
func (h *CamerasHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req CameraRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	input, err := req.input()
	if err != nil {
		return err
	}

	updated, err := h.cameras.Update(c.UserContext(), id, input)
	if err != nil {
		return backendError(h.logger, err, "update camera", domain.ErrCameraNotFound)
	}

	h.logger.Info("camera updated", "camera_id", id, "active", updated.Active, "admin_id", adminID(c))
	return c.JSON(h.respond(updated))
}

// Delete DELETE /v1/admin/cameras/:id
func (h *CamerasHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	if err := h.cameras.Delete(c.UserContext(), id); err != nil {
		return backendError(h.logger, err, "delete camera", domain.ErrCameraNotFound)
	}
	if h.syncer != nil {
		h.syncer.Remove(id)
	}

	h.logger.Info("camera deleted", "camera_id", id, "admin_id", adminID(c))
	return c.SendStatus(fiber.StatusNoContent)
}
