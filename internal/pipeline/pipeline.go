package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

// BatchExtractor reads up to batchSize inbound records from the stream source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.InboundRecord, error)
}

// ErrPublishAborted stops the batch loop when the publisher fails and the
// service is configured to treat publish failures as fatal.
var ErrPublishAborted = errors.New("publish failure aborted the batch")

// Pipeline orchestrates the extract-process-acknowledge loop.
type Pipeline struct {
	extractor BatchExtractor
	processor *Processor
	logger    *slog.Logger
	metrics   *observability.Metrics

	batchSize      int
	abortOnPublish bool

	ready       atomic.Bool
	lastSummary atomic.Pointer[domain.BatchSummary]
}

// New creates a Pipeline. abortOnPublish selects the summary-contract
// variant where a publish failure is fatal for the invocation instead of a
// retryable per-record failure.
func New(e BatchExtractor, proc *Processor, logger *slog.Logger, metrics *observability.Metrics, batchSize int, abortOnPublish bool) *Pipeline {
	return &Pipeline{
		extractor:      e,
		processor:      proc,
		logger:         logger,
		metrics:        metrics,
		batchSize:      batchSize,
		abortOnPublish: abortOnPublish,
	}
}

// CheckReadiness returns nil once the pipeline has processed at least one
// batch.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any batches yet")
	}
	return nil
}

// LastSummary returns the summary-contract projection of the most recent
// batch, and false before the first batch completes.
func (p *Pipeline) LastSummary() (domain.BatchSummary, bool) {
	s := p.lastSummary.Load()
	if s == nil {
		return domain.BatchSummary{}, false
	}
	return *s, true
}

// Run executes the batch loop until the context is cancelled or a fatal
// publish failure occurs in abort mode.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "workers", p.processor.workers)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during source outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		cont, err := p.processBatch(ctx, &backoff, maxBackoff)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// processBatch runs one extract-process-acknowledge cycle. Returns false if
// the pipeline should stop, or a non-nil error for a fatal publish failure.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) (bool, error) {
	start := time.Now()

	batch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff), nil
	}

	if len(batch) == 0 {
		return ctx.Err() == nil, nil
	}

	p.metrics.RecordsConsumed.Add(float64(len(batch)))
	p.metrics.BatchSize.Observe(float64(len(batch)))
	*backoff = 200 * time.Millisecond

	result := p.processor.ProcessBatch(ctx, batch)
	p.acknowledge(ctx, batch, result)

	summary := result.Summary()
	p.lastSummary.Store(&summary)
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("batch complete",
		"processed_records", summary.Processed,
		"failed_records", summary.Failed,
		"total_records", summary.Total,
		"failed_ids", result.FailedIDs(),
	)

	if p.abortOnPublish {
		for _, out := range result.Outcomes {
			if out.Status == domain.OutcomeFailed && out.Stage == StagePublish {
				p.logger.Error("publish failure is fatal in abort mode", "record_id", out.RecordID, "error", out.Err)
				return false, ErrPublishAborted
			}
		}
	}

	return true, nil
}

// acknowledge realizes the partial-retry contract on the stream source.
// Offsets are committed in batch order; the first retryable failure on a
// partition blocks commits for that partition's remaining records, so the
// source redelivers exactly the failed tail. Permanent (decode) failures are
// acknowledged, since redelivering poison messages cannot help.
func (p *Pipeline) acknowledge(ctx context.Context, batch []domain.InboundRecord, result domain.BatchResult) {
	blocked := make(map[int]bool)
	for i, rec := range batch {
		out := result.Outcomes[i]
		if out.Status == domain.OutcomeFailed && out.Retryable {
			blocked[rec.Partition] = true
		}
		if blocked[rec.Partition] {
			continue
		}
		p.commit(ctx, rec)
	}
}

// commit acknowledges the record offset if a commit callback is available.
func (p *Pipeline) commit(ctx context.Context, rec domain.InboundRecord) {
	if rec.Commit == nil {
		return
	}
	if err := rec.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", rec.Topic, "partition", rec.Partition, "offset", rec.Offset)
	}
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
