package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// CameraService wraps /camaras
type CameraService struct {
	c *Client
}

func (s *CameraService) List(ctx context.Context) ([]domain.Camera, error) {
	dtos, err := doGetJSON[[]cameraDTO](ctx, s.c, "camaras")
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	return mapSlice(*dtos, cameraDTO.toDomain), nil
}

func (s *CameraService) Get(ctx context.Context, id int) (*domain.Camera, error) {
	dto, err := doGetJSON[cameraDTO](ctx, s.c, "camaras/"+strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("get camera %d: %w", id, err)
	}
	c := dto.toDomain()
	return &c, nil
}

func (s *CameraService) Create(ctx context.Context, input CameraInput) (*domain.Camera, error) {
	dto, err := doPostJSON[cameraDTO](ctx, s.c, "camaras", input)
	if err != nil {
		return nil, fmt.Errorf("create camera: %w", err)
	}
	c := dto.toDomain()
	return &c, nil
}

func (s *CameraService) Update(ctx context.Context, id int, input CameraInput) (*domain.Camera, error) {
	dto, err := doPutJSON[cameraDTO](ctx, s.c, "camaras/"+strconv.Itoa(id), input)
	if err != nil {
		return nil, fmt.Errorf("update camera %d: %w", id, err)
	}
	c := dto.toDomain()
	return &c, nil
}

func (s *CameraService) Delete(ctx context.Context, id int) error {
	if err := doRaw(ctx, s.c, http.MethodDelete, "camaras/"+strconv.Itoa(id), nil); err != nil {
		return fmt.Errorf("delete camera %d: %w", id, err)
	}
	return nil
}
