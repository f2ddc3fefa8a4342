package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

// api is the slice of the S3 client this adapter uses.
type api interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Store implements domain.BlobStore on S3. Writes go to the configured
// archive bucket; reads may target any bucket, since trigger notifications
// name their own.
type Store struct {
	api     api
	bucket  string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewStore creates an S3-backed blob store writing to the given bucket.
func NewStore(awsCfg aws.Config, bucket string, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		api:     awss3.NewFromConfig(awsCfg),
		bucket:  bucket,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch reads an object body in full.
func (s *Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	start := time.Now()
	out, err := s.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	s.metrics.DependencyDuration.WithLabelValues("s3").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.DependencyErrors.WithLabelValues("s3").Inc()
		return nil, &domain.ServiceError{Dependency: "s3", Err: fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		s.metrics.DependencyErrors.WithLabelValues("s3").Inc()
		return nil, &domain.ServiceError{Dependency: "s3", Err: fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)}
	}
	return body, nil
}

// Store writes an object to the archive bucket.
func (s *Store) Store(ctx context.Context, key string, body []byte, metadata map[string]string) error {
	start := time.Now()
	_, err := s.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata:    metadata,
	})
	s.metrics.DependencyDuration.WithLabelValues("s3").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.DependencyErrors.WithLabelValues("s3").Inc()
		return &domain.ServiceError{Dependency: "s3", Err: fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)}
	}
	return nil
}

// Archiver persists each decoded record's raw payload for replay and audit.
type Archiver struct {
	store *Store
}

// NewArchiver creates an archiver writing through the given store.
func NewArchiver(store *Store) *Archiver {
	return &Archiver{store: store}
}

// Archive writes the record's decoded payload under a key built from the
// processing time and the record's stream coordinates.
func (a *Archiver) Archive(ctx context.Context, rec domain.InboundRecord, post domain.Post) error {
	key := archiveKey(rec)
	body, err := domain.DecodePayload(rec)
	if err != nil {
		// The caller already decoded this record, so this only happens if
		// the record was mutated in between.
		return fmt.Errorf("re-decode payload for archive: %w", err)
	}
	return a.store.Store(ctx, key, body, map[string]string{
		"source":          "kafka",
		"sequence-number": rec.SequenceID,
		"partition-key":   rec.PartitionKey,
		"processed-at":    domain.Now().UTC().Format(time.RFC3339),
	})
}

func archiveKey(rec domain.InboundRecord) string {
	ts := domain.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("twitter_data/%s_%s_%s.json", ts, rec.SequenceID, rec.PartitionKey)
}
