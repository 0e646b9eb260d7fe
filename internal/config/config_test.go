package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name: "loads with all required vars",
			envVars: map[string]string{
				"PORT":                 "8080",
				"ENV":                  "production",
				"BACKEND_URL":          "http://backend:5000/api",
				"SESSION_SECRET":       "secret123",
				"DETECTOR":             "rekognition",
				"RECOGNITION_INTERVAL": "5s",
				"DETECTION_RATE_LIMIT": "120",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 8080 &&
					c.Environment == "production" &&
					c.BackendURL == "http://backend:5000/api" &&
					c.SessionSecret == "secret123" &&
					c.Detector == "rekognition" &&
					c.RecognitionInterval == 5*time.Second &&
					c.DetectionRateLimit == 120
			},
		},
		{
			name: "uses defaults when optional vars missing",
			envVars: map[string]string{
				"BACKEND_URL":    "http://backend:5000/api",
				"SESSION_SECRET": "secret123",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 3000 &&
					c.Environment == "development" &&
					c.Detector == "facefind" &&
					c.RecognitionInterval == 3*time.Second &&
					c.JPEGQuality == 85 &&
					c.SessionTTL == 12*time.Hour &&
					c.AlertMinSimilarity == 0.6 &&
					c.SightingRetention == 720*time.Hour &&
					c.APIRateLimit == 600 &&
					c.OverlayWidth == 640 && c.OverlayHeight == 480 &&
					!c.PersistenceEnabled()
			},
		},
		{
			name: "fails when BACKEND_URL missing",
			envVars: map[string]string{
				"SESSION_SECRET": "secret123",
			},
			wantErr: true,
			check:   nil,
		},
		{
			name: "fails when SESSION_SECRET missing",
			envVars: map[string]string{
				"BACKEND_URL": "http://backend:5000/api",
			},
			wantErr: true,
			check:   nil,
		},
		{
			name: "fails when JPEG_QUALITY out of range",
			envVars: map[string]string{
				"BACKEND_URL":    "http://backend:5000/api",
				"SESSION_SECRET": "secret123",
				"JPEG_QUALITY":   "0",
			},
			wantErr: true,
			check:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Load() config check failed, got: %+v", cfg)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"development", "development", true},
		{"production", "production", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsDevelopment(); got != tt.want {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"production", "production", true},
		{"development", "development", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			if got := c.IsProduction(); got != tt.want {
				t.Errorf("IsProduction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_PersistenceEnabled(t *testing.T) {
	c := &Config{}
	if c.PersistenceEnabled() {
		t.Errorf("PersistenceEnabled() = true, want false without DATABASE_URL")
	}

	c.DatabaseURL = "postgres://localhost/facefind"
	if !c.PersistenceEnabled() {
		t.Errorf("PersistenceEnabled() = false, want true")
	}
}
