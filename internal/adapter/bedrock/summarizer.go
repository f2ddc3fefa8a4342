package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

const noSummary = "No summary generated."

// api is the slice of the Bedrock runtime client this adapter uses.
type api interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Summarizer implements domain.Summarizer by invoking a Bedrock text model.
type Summarizer struct {
	api     api
	modelID string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSummarizer creates a Bedrock-backed summarizer for the given model.
func NewSummarizer(awsCfg aws.Config, modelID string, logger *slog.Logger, metrics *observability.Metrics) *Summarizer {
	return &Summarizer{
		api:     bedrockruntime.NewFromConfig(awsCfg),
		modelID: modelID,
		logger:  logger,
		metrics: metrics,
	}
}

// Summarize produces a one-sentence summary of a disaster report. A response
// the model returns in an unrecognized shape yields a fixed placeholder
// rather than an error.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize the following disaster report in one sentence:\n\nReport: %s\n\nSummary:", text)

	body, err := json.Marshal(request{
		Messages: []message{
			{Role: "user", Content: []content{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode model request: %w", err)
	}

	start := time.Now()
	out, err := s.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	s.metrics.DependencyDuration.WithLabelValues("bedrock").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.DependencyErrors.WithLabelValues("bedrock").Inc()
		return "", &domain.ServiceError{Dependency: "bedrock", Err: fmt.Errorf("invoke model: %w", err)}
	}

	summary, err := parseSummary(out.Body)
	if err != nil {
		s.metrics.DependencyErrors.WithLabelValues("bedrock").Inc()
		return "", &domain.ServiceError{Dependency: "bedrock", Err: err}
	}
	return summary, nil
}

// request is the Bedrock converse-style invocation body.
type request struct {
	Messages []message `json:"messages"`
}

type message struct {
	Role    string    `json:"role"`
	Content []content `json:"content"`
}

type content struct {
	Text string `json:"text"`
}

// parseSummary extracts the generated text from a model response. Model
// families disagree on the envelope: newer ones nest the message under
// "output", older ones return a "results" list whose content items are
// either strings or {"text": ...} objects.
func parseSummary(body []byte) (string, error) {
	var envelope struct {
		Output *struct {
			Message struct {
				Content []content `json:"content"`
			} `json:"message"`
		} `json:"output"`
		Results []struct {
			Content []json.RawMessage `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}

	if envelope.Output != nil {
		if items := envelope.Output.Message.Content; len(items) > 0 {
			if text := strings.TrimSpace(items[0].Text); text != "" {
				return text, nil
			}
		}
		return noSummary, nil
	}

	if len(envelope.Results) > 0 && len(envelope.Results[0].Content) > 0 {
		item := envelope.Results[0].Content[0]

		var obj content
		if err := json.Unmarshal(item, &obj); err == nil && obj.Text != "" {
			return strings.TrimSpace(obj.Text), nil
		}
		var str string
		if err := json.Unmarshal(item, &str); err == nil && strings.TrimSpace(str) != "" {
			return strings.TrimSpace(str), nil
		}
	}
	return noSummary, nil
}
