package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleAlert() Alert {
	return Alert{
		Summary: "Severe flooding reported in Manila with residents trapped.",
		Locations: []AlertLocation{
			{
				Mention: "Manila",
				Point:   &GeoPoint{Lat: 14.5995, Lng: 120.9842},
				Weather: &WeatherAssessment{Confirmed: true, Detail: "heavy rain, 12mm rain in last hour"},
			},
			{
				Mention: "Quezon City",
				Point:   &GeoPoint{Lat: 14.676, Lng: 121.0437},
				Weather: &WeatherAssessment{Confirmed: false, Detail: "scattered clouds, 0mm rain in last hour"},
			},
			{Mention: "Atlantis"},
		},
		Sentiment: SentimentNegative,
		Severity:  SeverityHigh,
		Timestamp: "2025-08-30T11:22:33Z",
	}
}

func TestFormatAlert_Sections(t *testing.T) {
	msg := FormatAlert(sampleAlert())

	assert.True(t, strings.HasPrefix(msg, "🚨 Disaster Alert 🚨\n\n"))
	assert.Contains(t, msg, "Summary: Severe flooding reported in Manila with residents trapped.\n")
	assert.Contains(t, msg, "Detected location(s): Manila (14.59950, 120.98420); Quezon City (14.67600, 121.04370); Atlantis (Unknown coordinates)\n")
	assert.Contains(t, msg, "Sentiment: NEGATIVE\n")
	assert.Contains(t, msg, "Weather confirmation:\n")
	assert.Contains(t, msg, "Manila: CONFIRMED (heavy rain, 12mm rain in last hour)")
	assert.Contains(t, msg, "Quezon City: NOT CONFIRMED (scattered clouds, 0mm rain in last hour)")
	assert.Contains(t, msg, "Atlantis: Geocoding failed")
}

func TestFormatAlert_Idempotent(t *testing.T) {
	a := sampleAlert()
	assert.Equal(t, FormatAlert(a), FormatAlert(a), "formatting must be byte-identical across calls")
}

func TestFormatAlert_NoLocations(t *testing.T) {
	msg := FormatAlert(Alert{
		Summary:   "Unlocated report.",
		Sentiment: SentimentNeutral,
		Severity:  SeverityLow,
	})

	assert.Contains(t, msg, "Detected location(s): Unknown location\n")
	assert.True(t, strings.HasSuffix(msg, "Weather confirmation:\nNo weather data"))
}

func TestAlert_Subject(t *testing.T) {
	assert.Equal(t, "Disaster Alert - HIGH", Alert{Severity: SeverityHigh}.Subject())
	assert.Equal(t, "Disaster Alert - LOW", Alert{Severity: SeverityLow}.Subject())
}

func TestTruncateSummary(t *testing.T) {
	short := "Brief report."
	assert.Equal(t, short, TruncateSummary(short))

	long := strings.Repeat("a", 250)
	got := TruncateSummary(long)
	assert.Len(t, got, 203)
	assert.True(t, strings.HasSuffix(got, "..."))

	// Truncation counts characters, not bytes.
	unicode := strings.Repeat("日", 201)
	got = TruncateSummary(unicode)
	assert.Equal(t, strings.Repeat("日", 200)+"...", got)
}

func TestBatchResult_Projections(t *testing.T) {
	r := BatchResult{Outcomes: []RecordOutcome{
		{RecordID: "a", Status: OutcomeSuccess},
		{RecordID: "b", Status: OutcomeFailed, Stage: "decode"},
		{RecordID: "c", Status: OutcomeSuccess, Suppressed: true},
		{RecordID: "d", Status: OutcomeFailed, Stage: "entities", Retryable: true},
	}}

	sum := r.Summary()
	assert.Equal(t, 2, sum.Processed)
	assert.Equal(t, 2, sum.Failed)
	assert.Equal(t, 4, sum.Total)

	assert.Equal(t, []string{"b", "d"}, r.FailedIDs())
}
