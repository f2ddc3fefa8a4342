package sns

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

// api is the slice of the SNS client this adapter uses.
type api interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// Publisher implements domain.AlertPublisher on an SNS topic. Subscribers
// can filter on the severity and event_time message attributes without
// parsing the body.
type Publisher struct {
	api      api
	topicARN string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewPublisher creates an SNS-backed alert publisher.
func NewPublisher(awsCfg aws.Config, topicARN string, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	return &Publisher{
		api:      awssns.NewFromConfig(awsCfg),
		topicARN: topicARN,
		logger:   logger,
		metrics:  metrics,
	}
}

// Publish sends the formatted alert message to the topic.
func (p *Publisher) Publish(ctx context.Context, alert domain.Alert, message string) error {
	input := &awssns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(alert.Subject()),
		Message:  aws.String(message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"severity": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(alert.Severity)),
			},
			"event_time": {
				DataType:    aws.String("String"),
				StringValue: aws.String(alert.Timestamp),
			},
		},
	}

	start := time.Now()
	out, err := p.api.Publish(ctx, input)
	p.metrics.DependencyDuration.WithLabelValues("sns").Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.DependencyErrors.WithLabelValues("sns").Inc()
		return &domain.PublishError{Err: fmt.Errorf("sns publish: %w", err)}
	}

	p.logger.Info("alert published",
		"message_id", aws.ToString(out.MessageId),
		"severity", alert.Severity,
	)
	return nil
}

// LogPublisher implements domain.AlertPublisher by writing the alert to the
// service log. Used when no topic is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, alert domain.Alert, message string) error {
	p.logger.Info("alert publish (local)",
		"subject", alert.Subject(),
		"severity", alert.Severity,
		"event_time", alert.Timestamp,
		"message", message,
	)
	return nil
}
