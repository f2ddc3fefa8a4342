package bedrock

import (
	"context"

	"github.com/fieqah-faisal/rescuties/internal/domain"
)

// TruncationSummarizer is the local fallback used when no model is
// configured: the report itself, truncated, stands in for a summary.
type TruncationSummarizer struct{}

func (TruncationSummarizer) Summarize(_ context.Context, text string) (string, error) {
	return domain.TruncateSummary(text), nil
}
