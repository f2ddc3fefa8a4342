package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieqah-faisal/rescuties/internal/config"
	"github.com/fieqah-faisal/rescuties/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes raw post records from the source Kafka topic as part of a
// consumer group. It implements pipeline.BatchExtractor.
//
// Offsets are not auto-committed. Each extracted record carries a Commit
// callback bound to its own message, so the pipeline decides per record
// whether the offset is acknowledged.
type Reader struct {
	reader        *kafkago.Reader
	blob          domain.BlobStore
	logger        *slog.Logger
	flushInterval time.Duration
}

// NewReader creates a consumer-group reader for the configured source topic.
// The blob store is consulted when a message is an object-storage trigger
// rather than an inline record; it may be nil when no bucket is configured.
func NewReader(cfg *config.Config, blob domain.BlobStore, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaSourceTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // synchronous commits only
	})
	return &Reader{
		reader:        r,
		blob:          blob,
		logger:        logger,
		flushInterval: cfg.BatchFlushInterval,
	}
}

// ExtractBatch blocks until at least one message arrives, then keeps reading
// until the batch is full or the flush interval passes without a new message.
// A short batch is normal under light traffic.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.InboundRecord, error) {
	first, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch message: %w", err)
	}

	records := make([]domain.InboundRecord, 0, batchSize)
	records = append(records, r.toRecord(ctx, first))

	for len(records) < batchSize {
		fetchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
		msg, err := r.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if ctx.Err() != nil {
				// Return what we have; the pipeline commits none of it
				// and the group rebalance redelivers.
				break
			}
			return records, fmt.Errorf("fetch message: %w", err)
		}
		records = append(records, r.toRecord(ctx, msg))
	}
	return records, nil
}

// toRecord maps one Kafka message to an InboundRecord with a bound commit
// callback. Envelope errors (for example an unreachable trigger object) are
// carried on the record so the pipeline's per-record failure handling applies
// instead of poisoning the whole batch.
func (r *Reader) toRecord(ctx context.Context, msg kafkago.Message) domain.InboundRecord {
	rec, err := parseEnvelope(ctx, msg.Value, string(msg.Key), r.blob)
	if err != nil {
		r.logger.Warn("failed to resolve record envelope",
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()))
		rec = domain.InboundRecord{
			RecordID: fmt.Sprintf("%d-%d", msg.Partition, msg.Offset),
			Err:      err,
		}
	}
	rec.Topic = msg.Topic
	rec.Partition = msg.Partition
	rec.Offset = msg.Offset
	rec.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return rec
}

func (r *Reader) Close() error {
	return r.reader.Close()
}
