package domain

import (
	"strings"
	"time"
)

// CaseStatus is the normalized lifecycle state of a missing-person case.
type CaseStatus string

const (
	CaseStatusActive  CaseStatus = "active"
	CaseStatusFound   CaseStatus = "found"
	CaseStatusClosed  CaseStatus = "closed"
	CaseStatusUnknown CaseStatus = "unknown"
)

// ParseCaseStatus maps the backend's mixed spellings ("activo", "ACTIVE",
// "Encontrado", ...) to a CaseStatus.
func ParseCaseStatus(raw string) CaseStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active", "activo", "activa", "abierto", "open", "en_busqueda", "buscando":
		return CaseStatusActive
	case "found", "encontrado", "encontrada", "resuelto", "resolved":
		return CaseStatusFound
	case "closed", "cerrado", "cerrada", "archivado", "archived":
		return CaseStatusClosed
	default:
		return CaseStatusUnknown
	}
}

// Case representa um caso de pessoa desaparecida
type Case struct {
	ID           int        `json:"id"`
	PersonName   string     `json:"person_name"`
	Age          int        `json:"age,omitempty"`
	Description  string     `json:"description,omitempty"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	LastLocation string     `json:"last_location,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	Status       CaseStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}
