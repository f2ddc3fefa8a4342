package comprehend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscomprehend "github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

const languageCode = types.LanguageCodeEn

// api is the slice of the Comprehend client this adapter uses.
type api interface {
	DetectEntities(ctx context.Context, params *awscomprehend.DetectEntitiesInput, optFns ...func(*awscomprehend.Options)) (*awscomprehend.DetectEntitiesOutput, error)
	DetectSentiment(ctx context.Context, params *awscomprehend.DetectSentimentInput, optFns ...func(*awscomprehend.Options)) (*awscomprehend.DetectSentimentOutput, error)
}

// Client implements domain.EntityDetector using Amazon Comprehend.
type Client struct {
	api     api
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewClient creates a Comprehend-backed entity detector.
func NewClient(awsCfg aws.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		api:     awscomprehend.NewFromConfig(awsCfg),
		logger:  logger,
		metrics: metrics,
	}
}

// Detect extracts location mentions and the overall sentiment from a post.
// Location mentions keep the service's detection order, duplicates included.
func (c *Client) Detect(ctx context.Context, text string) (domain.EntityAnnotations, error) {
	start := time.Now()
	ann, err := c.detect(ctx, text)
	c.metrics.DependencyDuration.WithLabelValues("comprehend").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DependencyErrors.WithLabelValues("comprehend").Inc()
		return domain.EntityAnnotations{}, &domain.ServiceError{Dependency: "comprehend", Err: err}
	}
	return ann, nil
}

func (c *Client) detect(ctx context.Context, text string) (domain.EntityAnnotations, error) {
	entities, err := c.api.DetectEntities(ctx, &awscomprehend.DetectEntitiesInput{
		Text:         aws.String(text),
		LanguageCode: languageCode,
	})
	if err != nil {
		return domain.EntityAnnotations{}, fmt.Errorf("detect entities: %w", err)
	}

	var mentions []string
	for _, entity := range entities.Entities {
		if entity.Type == types.EntityTypeLocation && entity.Text != nil {
			mentions = append(mentions, *entity.Text)
		}
	}

	sentiment, err := c.api.DetectSentiment(ctx, &awscomprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: languageCode,
	})
	if err != nil {
		return domain.EntityAnnotations{}, fmt.Errorf("detect sentiment: %w", err)
	}

	return domain.EntityAnnotations{
		LocationMentions: mentions,
		Sentiment:        domain.Sentiment(strings.ToUpper(string(sentiment.Sentiment))),
	}, nil
}
