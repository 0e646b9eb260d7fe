package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// FaceFind backend
	BackendURL   string        `envconfig:"BACKEND_URL" required:"true"`
	BackendToken string        `envconfig:"BACKEND_TOKEN"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// Detector
	Detector              string `envconfig:"DETECTOR" default:"facefind"`
	AWSRegion             string `envconfig:"AWS_REGION" default:"us-east-1"`
	RekognitionCollection string `envconfig:"REKOGNITION_COLLECTION" default:"facefind-cases"`

	// Database (optional, sightings are not persisted without it)
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	SightingRetention time.Duration `envconfig:"SIGHTING_RETENTION" default:"720h"`

	// Security
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	APIRateLimit  int           `envconfig:"API_RATE_LIMIT" default:"600"`

	// Recognition
	RecognitionInterval time.Duration `envconfig:"RECOGNITION_INTERVAL" default:"3s"`
	JPEGQuality         int           `envconfig:"JPEG_QUALITY" default:"85"`
	DetectionRateLimit  int           `envconfig:"DETECTION_RATE_LIMIT" default:"0"`
	OverlayWidth        int           `envconfig:"OVERLAY_WIDTH" default:"640"`
	OverlayHeight       int           `envconfig:"OVERLAY_HEIGHT" default:"480"`

	// Alerts
	AlertMinSimilarity float64       `envconfig:"ALERT_MIN_SIMILARITY" default:"0.6"`
	AlertCooldown      time.Duration `envconfig:"ALERT_COOLDOWN" default:"60s"`
	AlertWebhookURL    string        `envconfig:"ALERT_WEBHOOK_URL"`
	AlertWebhookSecret string        `envconfig:"ALERT_WEBHOOK_SECRET"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("load config: JPEG_QUALITY must be between 1 and 100, got %d", cfg.JPEGQuality)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PersistenceEnabled reports whether sightings should be written to PostgreSQL.
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}
