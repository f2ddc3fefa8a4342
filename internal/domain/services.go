package domain

import "context"

// EntityDetector extracts location mentions and sentiment from post text.
type EntityDetector interface {
	Detect(ctx context.Context, text string) (EntityAnnotations, error)
}

// Geocoder resolves a free-text location mention to coordinates.
// A (nil, nil) return means the provider found no match, a valid outcome
// rendered downstream as unknown coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, mention string) (*GeoPoint, error)
}

// WeatherProvider reports current conditions at a coordinate.
type WeatherProvider interface {
	Current(ctx context.Context, point GeoPoint) (WeatherConditions, error)
}

// Summarizer produces a one-sentence summary of a post.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// AlertPublisher delivers a formatted alert to the notification channel.
type AlertPublisher interface {
	Publish(ctx context.Context, alert Alert, message string) error
}

// BlobStore is the object-storage collaborator: trigger-object fetches on
// ingest and best-effort raw archival.
type BlobStore interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
	Store(ctx context.Context, key string, body []byte, metadata map[string]string) error
}
