package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity_RuleTable(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		hashtags  []string
		verified  bool
		sentiment Sentiment
		want      Severity
	}{
		{
			name:      "high keyword dominates everything",
			text:      "Flooding in Manila, people trapped, please send help",
			hashtags:  []string{"#flood"},
			sentiment: SentimentPositive,
			want:      SeverityHigh,
		},
		{
			name:     "high hashtag alone",
			text:     "situation developing",
			hashtags: []string{"#rescue"},
			want:     SeverityHigh,
		},
		{
			name: "medium keyword",
			text: "Power outage across the northern district",
			want: SeverityMedium,
		},
		{
			name:     "medium hashtag",
			text:     "roads closed",
			hashtags: []string{"#stormalert"},
			want:     SeverityMedium,
		},
		{
			name:      "verified negative author",
			text:      "this is getting worse by the hour",
			verified:  true,
			sentiment: SentimentNegative,
			want:      SeverityMedium,
		},
		{
			name:      "verified mixed author",
			text:      "conflicting reports coming in",
			verified:  true,
			sentiment: SentimentMixed,
			want:      SeverityMedium,
		},
		{
			name:      "unverified negative author stays low",
			text:      "this is getting worse by the hour",
			sentiment: SentimentNegative,
			want:      SeverityLow,
		},
		{
			name:      "benign post",
			text:      "It's a bit cloudy today",
			sentiment: SentimentNeutral,
			want:      SeverityLow,
		},
		{
			name: "keyword matching is case-insensitive",
			text: "EVACUATE the coastal barangays now",
			want: SeverityHigh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post := Post{Text: tc.text, Hashtags: normalizeHashtags(tc.hashtags), IsVerified: tc.verified}
			ann := EntityAnnotations{Sentiment: tc.sentiment}
			assert.Equal(t, tc.want, ClassifySeverity(post, ann))
		})
	}
}

// Priority 1 dominates: any post containing "trapped" is high severity no
// matter what the other inputs say.
func TestClassifySeverity_TrappedAlwaysHigh(t *testing.T) {
	sentiments := []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed}
	for _, s := range sentiments {
		for _, verified := range []bool{true, false} {
			post := Post{Text: "families trapped on rooftops", IsVerified: verified}
			got := ClassifySeverity(post, EntityAnnotations{Sentiment: s})
			assert.Equal(t, SeverityHigh, got, "sentiment=%s verified=%v", s, verified)
		}
	}
}

func TestSeverity_Ordering(t *testing.T) {
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
}
