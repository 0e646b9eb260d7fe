package rekognition

// Config holds configuration for the AWS Rekognition detector
type Config struct {
	// Region is the AWS region where Rekognition service will be used (e.g., "us-east-1")
	Region string

	// CollectionID is the collection holding the indexed case photos.
	// Faces are indexed with ExternalImageId set to the person name, spaces as underscores.
	CollectionID string

	// MatchThreshold is the minimum similarity (0-100) Rekognition reports as a match
	MatchThreshold float32

	// MaxFaces caps how many detected faces are searched per frame
	MaxFaces int
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Region:         "us-east-1",
		CollectionID:   "facefind-cases",
		MatchThreshold: 80,
		MaxFaces:       10,
	}
}
