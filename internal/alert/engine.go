package alert

import (
	"strings"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Config controls when a match becomes an alert
type Config struct {
	MinSimilarity float64
	Cooldown      time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinSimilarity: 0.6,
		Cooldown:      60 * time.Second,
	}
}

type cooldownKey struct {
	cameraID string
	person   string
}

// Engine turns matched faces into alerts. The same person on the same camera
// alerts at most once per cooldown.
type Engine struct {
	config Config
	now    func() time.Time

	mu   sync.Mutex
	last map[cooldownKey]time.Time
}

func NewEngine(config Config) *Engine {
	return &Engine{
		config: config,
		now:    time.Now,
		last:   make(map[cooldownKey]time.Time),
	}
}

// Evaluate returns the alerts to raise for a match
func (e *Engine) Evaluate(m Match) []domain.Alert {
	at := m.At
	if at.IsZero() {
		at = e.now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var alerts []domain.Alert
	for _, face := range m.Faces {
		if !face.IsMatch() || face.Similarity < e.config.MinSimilarity {
			continue
		}

		name := face.Name()
		key := cooldownKey{cameraID: m.CameraID, person: strings.ToLower(name)}
		if !e.shouldTrigger(key, at) {
			continue
		}
		e.last[key] = at

		alerts = append(alerts, domain.Alert{
			CameraID:   m.CameraID,
			PersonName: name,
			Similarity: face.Similarity,
			Box:        face.Box,
			Status:     domain.AlertStatusPending,
			DetectedAt: at,
		})
	}
	return alerts
}

func (e *Engine) shouldTrigger(key cooldownKey, now time.Time) bool {
	last, ok := e.last[key]
	if !ok {
		return true
	}
	return !now.Before(last.Add(e.config.Cooldown))
}

// Prune forgets cooldowns that already expired and returns how many were removed
func (e *Engine) Prune() int {
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	removed := 0
	for key, last := range e.last {
		if !now.Before(last.Add(e.config.Cooldown)) {
			delete(e.last, key)
			removed++
		}
	}
	return removed
}
