package backend

import (
	"cmp"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// The backend mixes Spanish and English field names across endpoints.
// DTOs accept both and normalize into domain types.

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type caseDTO struct {
	ID              int    `json:"id"`
	Nombre          string `json:"nombre"`
	PersonName      string `json:"person_name"`
	Edad            int    `json:"edad"`
	Age             int    `json:"age"`
	Descripcion     string `json:"descripcion"`
	Description     string `json:"description"`
	Estado          string `json:"estado"`
	Status          string `json:"status"`
	FotoURL         string `json:"foto_url"`
	PhotoURL        string `json:"photo_url"`
	UltimaUbicacion string `json:"ultima_ubicacion"`
	LastLocation    string `json:"last_location"`
	FechaVisto      string `json:"fecha_desaparicion"`
	LastSeenAt      string `json:"last_seen_at"`
	CreatedAt       string `json:"created_at"`
}

func (d caseDTO) toDomain() domain.Case {
	c := domain.Case{
		ID:           d.ID,
		PersonName:   strings.TrimSpace(cmp.Or(d.Nombre, d.PersonName)),
		Age:          cmp.Or(d.Edad, d.Age),
		Description:  cmp.Or(d.Descripcion, d.Description),
		LastLocation: cmp.Or(d.UltimaUbicacion, d.LastLocation),
		PhotoURL:     cmp.Or(d.FotoURL, d.PhotoURL),
		Status:       domain.ParseCaseStatus(cmp.Or(d.Estado, d.Status)),
	}
	if t, ok := parseTime(cmp.Or(d.FechaVisto, d.LastSeenAt)); ok {
		c.LastSeenAt = &t
	}
	if t, ok := parseTime(d.CreatedAt); ok {
		c.CreatedAt = t
	}
	return c
}

// CaseInput is the payload to create or update a case
type CaseInput struct {
	Nombre          string `json:"nombre"`
	Edad            int    `json:"edad,omitempty"`
	Descripcion     string `json:"descripcion,omitempty"`
	UltimaUbicacion string `json:"ultima_ubicacion,omitempty"`
	FotoURL         string `json:"foto_url,omitempty"`
	Estado          string `json:"estado,omitempty"`
}

// CaseEstado is the backend spelling of a case status, empty for unknown
func CaseEstado(status domain.CaseStatus) string {
	switch status {
	case domain.CaseStatusActive:
		return "activo"
	case domain.CaseStatusFound:
		return "encontrado"
	case domain.CaseStatusClosed:
		return "cerrado"
	default:
		return ""
	}
}

type cameraDTO struct {
	ID          int      `json:"id"`
	Nombre      string   `json:"nombre"`
	Name        string   `json:"name"`
	Ubicacion   string   `json:"ubicacion"`
	Location    string   `json:"location"`
	Latitud     *float64 `json:"latitud"`
	Latitude    *float64 `json:"latitude"`
	Longitud    *float64 `json:"longitud"`
	Longitude   *float64 `json:"longitude"`
	URL         string   `json:"url"`
	SnapshotURL string   `json:"snapshot_url"`
	Activa      *bool    `json:"activa"`
	Active      *bool    `json:"active"`
}

func (d cameraDTO) toDomain() domain.Camera {
	c := domain.Camera{
		ID:          d.ID,
		Name:        cmp.Or(d.Nombre, d.Name),
		Location:    cmp.Or(d.Ubicacion, d.Location),
		Latitude:    d.Latitud,
		Longitude:   d.Longitud,
		SnapshotURL: cmp.Or(d.SnapshotURL, d.URL),
		Active:      true,
	}
	if c.Latitude == nil {
		c.Latitude = d.Latitude
	}
	if c.Longitude == nil {
		c.Longitude = d.Longitude
	}
	switch {
	case d.Activa != nil:
		c.Active = *d.Activa
	case d.Active != nil:
		c.Active = *d.Active
	}
	return c
}

// CameraInput is the payload to create or update a camera
type CameraInput struct {
	Nombre    string   `json:"nombre"`
	Ubicacion string   `json:"ubicacion,omitempty"`
	Latitud   *float64 `json:"latitud,omitempty"`
	Longitud  *float64 `json:"longitud,omitempty"`
	URL       string   `json:"url,omitempty"`
	Activa    bool     `json:"activa"`
}

type alertDTO struct {
	ID         int                `json:"id"`
	CamaraID   any                `json:"camara_id"`
	CameraID   any                `json:"camera_id"`
	CasoID     *int               `json:"caso_id"`
	CaseID     *int               `json:"case_id"`
	Nombre     string             `json:"nombre"`
	PersonName string             `json:"person_name"`
	Similitud  float64            `json:"similitud"`
	Similarity float64            `json:"similarity"`
	BBox       domain.BoundingBox `json:"bbox"`
	Estado     string             `json:"estado"`
	Status     string             `json:"status"`
	Fecha      string             `json:"fecha"`
	DetectedAt string             `json:"detected_at"`
}

func (d alertDTO) toDomain() domain.Alert {
	a := domain.Alert{
		ID:         d.ID,
		CameraID:   cmp.Or(idString(d.CamaraID), idString(d.CameraID)),
		CaseID:     d.CasoID,
		PersonName: cmp.Or(d.Nombre, d.PersonName),
		Similarity: normalizeSimilarity(cmp.Or(d.Similitud, d.Similarity)),
		Box:        d.BBox,
		Status:     parseAlertStatus(cmp.Or(d.Estado, d.Status)),
	}
	if a.CaseID == nil {
		a.CaseID = d.CaseID
	}
	if t, ok := parseTime(cmp.Or(d.Fecha, d.DetectedAt)); ok {
		a.DetectedAt = t
	}
	return a
}

// alertInput is what the backend expects when an alert is created
type alertInput struct {
	CamaraID  string             `json:"camara_id"`
	CasoID    *int               `json:"caso_id,omitempty"`
	Nombre    string             `json:"nombre"`
	Similitud float64            `json:"similitud"`
	BBox      domain.BoundingBox `json:"bbox"`
	Fecha     string             `json:"fecha"`
}

func parseAlertStatus(raw string) domain.AlertStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "acknowledged", "reconocida", "atendida", "revisada":
		return domain.AlertStatusAcknowledged
	case "dismissed", "descartada":
		return domain.AlertStatusDismissed
	default:
		return domain.AlertStatusPending
	}
}

// normalizeSimilarity accepts both 0..1 and percentage values
func normalizeSimilarity(v float64) float64 {
	if v > 1 {
		v /= 100
	}
	return max(0, min(1, v))
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

type userDTO struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Role   string `json:"role"`
	Activo *bool  `json:"activo"`
	Active *bool  `json:"active"`
}

func (d userDTO) toDomain() domain.User {
	u := domain.User{
		ID:     d.ID,
		Name:   cmp.Or(d.Nombre, d.Name),
		Email:  d.Email,
		Role:   domain.ParseRole(cmp.Or(d.Rol, d.Role)),
		Active: true,
	}
	switch {
	case d.Activo != nil:
		u.Active = *d.Activo
	case d.Active != nil:
		u.Active = *d.Active
	}
	return u
}

// UserInput is the payload to create a user
type UserInput struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

type notificationDTO struct {
	ID        int    `json:"id"`
	UsuarioID int    `json:"usuario_id"`
	UserID    int    `json:"user_id"`
	Titulo    string `json:"titulo"`
	Title     string `json:"title"`
	Mensaje   string `json:"mensaje"`
	Message   string `json:"message"`
	Leida     bool   `json:"leida"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func (d notificationDTO) toDomain() domain.Notification {
	n := domain.Notification{
		ID:      d.ID,
		UserID:  cmp.Or(d.UsuarioID, d.UserID),
		Title:   cmp.Or(d.Titulo, d.Title),
		Message: cmp.Or(d.Mensaje, d.Message),
		Read:    d.Leida || d.Read,
	}
	if t, ok := parseTime(d.CreatedAt); ok {
		n.CreatedAt = t
	}
	return n
}

func mapSlice[D any, T any](in []D, fn func(D) T) []T {
	out := make([]T, 0, len(in))
	for _, d := range in {
		out = append(out, fn(d))
	}
	return out
}
