package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool used by repositories (pgxmock implements it too)
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var (
	ErrInvalidSighting   = errors.New("invalid sighting")
	ErrDuplicateSighting = errors.New("sighting already recorded")
)

type SightingRepository struct {
	pool PgxPool
}

func NewSightingRepository(pool PgxPool) *SightingRepository {
	return &SightingRepository{pool: pool}
}

func (r *SightingRepository) Create(ctx context.Context, s *domain.Sighting) error {
	if strings.TrimSpace(s.CameraID) == "" || strings.TrimSpace(s.PersonName) == "" {
		return fmt.Errorf("%w: camera_id and person_name are required", ErrInvalidSighting)
	}

	query := `
		INSERT INTO sightings (id, camera_id, face_id, person_name, similarity, bbox_x, bbox_y, bbox_w, bbox_h, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CapturedAt.IsZero() {
		s.CapturedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.CameraID,
		s.FaceID,
		s.PersonName,
		s.Similarity,
		s.Box.X,
		s.Box.Y,
		s.Box.Width,
		s.Box.Height,
		s.CapturedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSighting
		}
		return fmt.Errorf("create sighting: %w", err)
	}

	return nil
}

// Record persists every matched face of a tick. It satisfies recognition.Recorder.
func (r *SightingRepository) Record(ctx context.Context, cameraID string, faces []domain.FaceResult, capturedAt time.Time) error {
	for _, f := range faces {
		if !f.IsMatch() {
			continue
		}
		s := &domain.Sighting{
			CameraID:   cameraID,
			FaceID:     f.FaceID,
			PersonName: f.Name(),
			Similarity: f.Similarity,
			Box:        f.Box,
			CapturedAt: capturedAt,
		}
		if err := r.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// ListByCamera returns the most recent sightings of a camera, newest first
func (r *SightingRepository) ListByCamera(ctx context.Context, cameraID string, limit int) ([]domain.Sighting, error) {
	query := `
		SELECT id, camera_id, face_id, person_name, similarity, bbox_x, bbox_y, bbox_w, bbox_h, captured_at
		FROM sightings
		WHERE camera_id = $1
		ORDER BY captured_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, cameraID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list sightings: %w", err)
	}
	defer rows.Close()

	sightings := make([]domain.Sighting, 0)
	for rows.Next() {
		var s domain.Sighting
		if err := rows.Scan(
			&s.ID,
			&s.CameraID,
			&s.FaceID,
			&s.PersonName,
			&s.Similarity,
			&s.Box.X,
			&s.Box.Y,
			&s.Box.Width,
			&s.Box.Height,
			&s.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sighting: %w", err)
		}
		sightings = append(sightings, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sightings: %w", err)
	}

	return sightings, nil
}

// CountSince counts sightings of all cameras captured at or after since
func (r *SightingRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM sightings WHERE captured_at >= $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sightings: %w", err)
	}
	return count, nil
}

// DeleteBefore removes sightings older than before and returns how many were deleted
func (r *SightingRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM sightings WHERE captured_at < $1`

	tag, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("delete sightings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
