package domain

import (
	"context"
)

// InboundRecord is one raw record from the stream source. Data holds the
// base64 payload exactly as delivered; decoding happens in DecodePost.
type InboundRecord struct {
	RecordID     string // source event ID, or a generated fallback
	Data         []byte
	SequenceID   string
	PartitionKey string

	// Err carries a transport-level resolution failure (for example an
	// unreachable trigger object). Records with a non-nil Err never reach
	// the decoder and fail as retryable service errors.
	Err error

	// Transport metadata from the source, used for acknowledgement.
	Topic     string
	Partition int
	Offset    int64
	Commit    func(ctx context.Context) error
}

// Post is the normalized form of a successfully decoded record. Read-only
// after decoding.
type Post struct {
	ID               string
	Text             string
	AuthorHandle     string
	IsVerified       bool
	Hashtags         []string // lowercased, deduplicated, source order
	DeclaredLocation string
	Timestamp        string // carried opaque from the source payload
}

// Sentiment is the overall sentiment label returned by the NLP service.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentMixed    Sentiment = "MIXED"
)

// EntityAnnotations holds what the NLP service extracted from a post.
// LocationMentions preserves detection order and duplicates.
type EntityAnnotations struct {
	LocationMentions []string
	Sentiment        Sentiment
}

// GeoPoint is a WGS-84 coordinate pair. A nil *GeoPoint means the mention
// could not be resolved.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// WeatherAssessment is the corroboration verdict for one resolved coordinate.
type WeatherAssessment struct {
	Confirmed bool
	Detail    string
}

// Severity is the alert urgency tier, totally ordered high > medium > low.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps a severity to its position in the ordering; higher is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// AlertLocation pairs a location mention with its resolution and weather
// corroboration results. Point is nil when geocoding failed; Weather is nil
// when no assessment was possible (unresolved mention).
type AlertLocation struct {
	Mention string
	Point   *GeoPoint
	Weather *WeatherAssessment
}

// Alert is the derived, immutable alert entity. It exists only long enough
// to format and publish.
type Alert struct {
	Summary   string
	Locations []AlertLocation
	Sentiment Sentiment
	Severity  Severity
	Timestamp string
}
