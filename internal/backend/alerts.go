package backend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// AlertService wraps /alertas
type AlertService struct {
	c *Client
}

func (s *AlertService) List(ctx context.Context) ([]domain.Alert, error) {
	dtos, err := doGetJSON[[]alertDTO](ctx, s.c, "alertas")
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return mapSlice(*dtos, alertDTO.toDomain), nil
}

// Create reports a match alert to the backend
func (s *AlertService) Create(ctx context.Context, alert domain.Alert) (*domain.Alert, error) {
	input := alertInput{
		CamaraID:  alert.CameraID,
		CasoID:    alert.CaseID,
		Nombre:    alert.PersonName,
		Similitud: alert.Similarity,
		BBox:      alert.Box,
		Fecha:     alert.DetectedAt.UTC().Format(time.RFC3339),
	}

	dto, err := doPostJSON[alertDTO](ctx, s.c, "alertas", input)
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	created := dto.toDomain()
	if created.PersonName == "" {
		// some deployments only echo the id
		alert.ID = created.ID
		alert.Status = domain.AlertStatusPending
		return &alert, nil
	}
	return &created, nil
}

// Acknowledge marks an alert as handled by an operator
func (s *AlertService) Acknowledge(ctx context.Context, id int) error {
	body := map[string]string{"estado": "reconocida"}
	if _, err := doPutJSON[alertDTO](ctx, s.c, "alertas/"+strconv.Itoa(id), body); err != nil {
		return fmt.Errorf("acknowledge alert %d: %w", id, err)
	}
	return nil
}
