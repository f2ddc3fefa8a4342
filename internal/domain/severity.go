package domain

import "strings"

// Keyword and hashtag tables for the severity rule table. Matching is
// case-insensitive substring containment over the post text.
var (
	highKeywords = []string{
		"trapped", "urgent", "help needed", "evacuate",
		"buried", "rescue", "hospitals", "drowning",
	}
	highHashtags = []string{"#rescue", "#help", "#urgent"}

	mediumKeywords = []string{
		"power outage", "fire", "wildfire", "landslide",
		"flood", "earthquake", "tremor", "storm", "typhoon",
	}
	mediumHashtags = []string{"#flood", "#wildfire", "#earthquake", "#stormalert", "#typhoon"}
)

// ClassifySeverity applies the severity rule table in strict priority order,
// first match wins. Pure function, no failure mode.
func ClassifySeverity(post Post, ann EntityAnnotations) Severity {
	text := strings.ToLower(post.Text)

	if containsAny(text, highKeywords) || hashtagsIntersect(post.Hashtags, highHashtags) {
		return SeverityHigh
	}
	if containsAny(text, mediumKeywords) || hashtagsIntersect(post.Hashtags, mediumHashtags) {
		return SeverityMedium
	}
	if post.IsVerified && (ann.Sentiment == SentimentNegative || ann.Sentiment == SentimentMixed) {
		return SeverityMedium
	}
	return SeverityLow
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// hashtagsIntersect assumes post hashtags are already lowercased by decoding.
func hashtagsIntersect(tags, wanted []string) bool {
	for _, tag := range tags {
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}
