package domain

import (
	"fmt"
	"strings"
)

// Subject is the notification subject line, carrying the severity tier.
func (a Alert) Subject() string {
	return "Disaster Alert - " + strings.ToUpper(string(a.Severity))
}

// FormatAlert renders the published message body as fixed sections: title,
// summary, semicolon-joined locations, sentiment, and per-location weather
// confirmation lines. Formatting the same alert twice yields identical bytes.
func FormatAlert(a Alert) string {
	var b strings.Builder
	b.WriteString("🚨 Disaster Alert 🚨\n\n")
	fmt.Fprintf(&b, "Summary: %s\n\n", a.Summary)
	fmt.Fprintf(&b, "Detected location(s): %s\n", formatLocationList(a.Locations))
	fmt.Fprintf(&b, "Sentiment: %s\n", a.Sentiment)
	fmt.Fprintf(&b, "Weather confirmation:\n%s", formatConfirmations(a.Locations))
	return b.String()
}

// formatLocationList joins per-mention coordinate entries with "; ".
// Unresolved mentions render as "(Unknown coordinates)"; an empty mention
// list collapses to "Unknown location".
func formatLocationList(locs []AlertLocation) string {
	if len(locs) == 0 {
		return "Unknown location"
	}
	entries := make([]string, len(locs))
	for i, loc := range locs {
		if loc.Point == nil {
			entries[i] = fmt.Sprintf("%s (Unknown coordinates)", loc.Mention)
			continue
		}
		entries[i] = fmt.Sprintf("%s (%.5f, %.5f)", loc.Mention, loc.Point.Lat, loc.Point.Lng)
	}
	return strings.Join(entries, "; ")
}

// formatConfirmations joins per-mention corroboration verdicts with newlines,
// or "No weather data" when there are no mentions.
func formatConfirmations(locs []AlertLocation) string {
	if len(locs) == 0 {
		return "No weather data"
	}
	lines := make([]string, len(locs))
	for i, loc := range locs {
		switch {
		case loc.Point == nil || loc.Weather == nil:
			lines[i] = fmt.Sprintf("%s: Geocoding failed", loc.Mention)
		case loc.Weather.Confirmed:
			lines[i] = fmt.Sprintf("%s: CONFIRMED (%s)", loc.Mention, loc.Weather.Detail)
		default:
			lines[i] = fmt.Sprintf("%s: NOT CONFIRMED (%s)", loc.Mention, loc.Weather.Detail)
		}
	}
	return strings.Join(lines, "\n")
}

// TruncateSummary is the local summarization fallback used when no generative
// model is configured: the first 200 characters of the post text, with an
// ellipsis appended when truncated.
func TruncateSummary(text string) string {
	const limit = 200
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
