package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

// Pipeline stage names, used in outcomes, logs, and metrics labels.
const (
	StageExtract  = "extract"
	StageDecode   = "decode"
	StageEntities = "entities"
	StagePublish  = "publish"
)

// Archiver persists the raw form of a decoded record. Best-effort: failures
// are logged and never fail the record.
type Archiver interface {
	Archive(ctx context.Context, rec domain.InboundRecord, post domain.Post) error
}

// Deps bundles the external collaborators a Processor drives. Geocoder,
// Weather, and Archiver may be nil; the corresponding enrichment degrades
// gracefully.
type Deps struct {
	Entities   domain.EntityDetector
	Geocoder   domain.Geocoder
	Weather    domain.WeatherProvider
	Summarizer domain.Summarizer
	Publisher  domain.AlertPublisher
	Archiver   Archiver
}

// Processor runs the per-record alerting pipeline over a batch: decode,
// extract entities, resolve and corroborate locations, summarize, classify,
// format, publish. Failures are isolated at the record boundary.
type Processor struct {
	deps        Deps
	logger      *slog.Logger
	metrics     *observability.Metrics
	callTimeout time.Duration
	workers     int
}

// NewProcessor creates a Processor. callTimeout bounds every external call;
// workers bounds batch concurrency.
func NewProcessor(deps Deps, logger *slog.Logger, metrics *observability.Metrics, callTimeout time.Duration, workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		deps:        deps,
		logger:      logger,
		metrics:     metrics,
		callTimeout: callTimeout,
		workers:     workers,
	}
}

// ProcessBatch runs every record in the batch through the pipeline with a
// bounded worker pool and returns one outcome per record, in batch order.
// Records are independent; no record observes another's outcome.
func (p *Processor) ProcessBatch(ctx context.Context, records []domain.InboundRecord) domain.BatchResult {
	outcomes := make([]domain.RecordOutcome, len(records))

	// Each worker writes only its own slice element, so no lock is needed
	// for accumulation.
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for i := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = p.processRecord(ctx, records[i])
		}(i)
	}
	wg.Wait()

	for _, out := range outcomes {
		if out.Status == domain.OutcomeSuccess {
			p.metrics.RecordsProcessed.Inc()
		} else {
			p.metrics.RecordsFailed.WithLabelValues(out.Stage).Inc()
		}
	}

	return domain.BatchResult{Outcomes: outcomes}
}

// processRecord drives one record through every stage. Any returned failure
// has already been logged with enough context to diagnose.
func (p *Processor) processRecord(ctx context.Context, rec domain.InboundRecord) domain.RecordOutcome {
	if rec.Err != nil {
		p.logger.Warn("record extraction failed",
			"record_id", rec.RecordID,
			"error", rec.Err,
		)
		return failedOutcome(rec, StageExtract, &domain.ServiceError{Dependency: "source", Err: rec.Err})
	}

	post, err := domain.DecodePost(rec)
	if err != nil {
		p.logger.Warn("record decode failed",
			"record_id", rec.RecordID,
			"sequence_id", rec.SequenceID,
			"raw_size", len(rec.Data),
			"error", err,
		)
		return failedOutcome(rec, StageDecode, err)
	}

	p.archive(ctx, rec, post)

	if strings.TrimSpace(post.Text) == "" {
		p.logger.Info("empty post text, alert suppressed", "record_id", rec.RecordID, "post_id", post.ID)
		p.metrics.AlertsSuppressed.Inc()
		return domain.RecordOutcome{RecordID: rec.RecordID, Status: domain.OutcomeSuccess, Suppressed: true}
	}

	ann, err := p.detectEntities(ctx, post.Text)
	if err != nil {
		p.logger.Warn("entity extraction failed",
			"record_id", rec.RecordID,
			"post_id", post.ID,
			"dependency", "comprehend",
			"error", err,
		)
		return failedOutcome(rec, StageEntities, err)
	}

	summary := p.summarize(ctx, post)
	locations := p.resolveLocations(ctx, ann.LocationMentions)

	alert := domain.Alert{
		Summary:   summary,
		Locations: locations,
		Sentiment: ann.Sentiment,
		Severity:  domain.ClassifySeverity(post, ann),
		Timestamp: eventTime(post),
	}

	if err := p.publish(ctx, alert); err != nil {
		p.logger.Error("alert publish failed",
			"record_id", rec.RecordID,
			"post_id", post.ID,
			"severity", alert.Severity,
			"error", err,
		)
		return failedOutcome(rec, StagePublish, err)
	}

	p.metrics.AlertsPublished.WithLabelValues(string(alert.Severity)).Inc()
	return domain.RecordOutcome{RecordID: rec.RecordID, Status: domain.OutcomeSuccess}
}

func (p *Processor) detectEntities(ctx context.Context, text string) (domain.EntityAnnotations, error) {
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	ann, err := p.deps.Entities.Detect(callCtx, text)
	if err != nil {
		var se *domain.ServiceError
		if !errors.As(err, &se) {
			err = &domain.ServiceError{Dependency: "comprehend", Err: err}
		}
		return domain.EntityAnnotations{}, err
	}
	return ann, nil
}

// summarize never fails the record: a summarizer error degrades to a fixed
// literal.
func (p *Processor) summarize(ctx context.Context, post domain.Post) string {
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	summary, err := p.deps.Summarizer.Summarize(callCtx, post.Text)
	if err != nil {
		p.logger.Warn("summary generation failed", "post_id", post.ID, "dependency", "bedrock", "error", err)
		return "Error generating summary"
	}
	return summary
}

// resolveLocations geocodes each mention and corroborates resolved ones
// against live weather. A failure for one mention never affects the others.
func (p *Processor) resolveLocations(ctx context.Context, mentions []string) []domain.AlertLocation {
	if len(mentions) == 0 {
		return nil
	}
	locations := make([]domain.AlertLocation, len(mentions))
	for i, mention := range mentions {
		loc := domain.AlertLocation{Mention: mention}
		if point := p.geocode(ctx, mention); point != nil {
			loc.Point = point
			assessment := p.checkWeather(ctx, *point)
			loc.Weather = &assessment
		}
		locations[i] = loc
	}
	return locations
}

// geocode returns nil when the mention is unresolvable, for any reason.
func (p *Processor) geocode(ctx context.Context, mention string) *domain.GeoPoint {
	if p.deps.Geocoder == nil {
		return nil
	}
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	point, err := p.deps.Geocoder.Geocode(callCtx, mention)
	if err != nil {
		p.logger.Warn("geocoding failed", "mention", mention, "dependency", "googlemaps", "error", err)
		return nil
	}
	return point
}

// checkWeather maps provider errors into an unconfirmed assessment carrying
// the failure reason, matching the corroboration contract.
func (p *Processor) checkWeather(ctx context.Context, point domain.GeoPoint) domain.WeatherAssessment {
	if p.deps.Weather == nil {
		return domain.WeatherAssessment{Detail: "API key not configured"}
	}
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	cond, err := p.deps.Weather.Current(callCtx, point)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			return domain.WeatherAssessment{Detail: "API key not configured"}
		}
		p.logger.Warn("weather lookup failed", "lat", point.Lat, "lng", point.Lng, "dependency", "openweather", "error", err)
		return domain.WeatherAssessment{Detail: "Error: " + err.Error()}
	}
	return domain.AssessConditions(cond)
}

func (p *Processor) publish(ctx context.Context, alert domain.Alert) error {
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	if err := p.deps.Publisher.Publish(callCtx, alert, domain.FormatAlert(alert)); err != nil {
		var pe *domain.PublishError
		if !errors.As(err, &pe) {
			err = &domain.PublishError{Err: err}
		}
		return err
	}
	return nil
}

func (p *Processor) archive(ctx context.Context, rec domain.InboundRecord, post domain.Post) {
	if p.deps.Archiver == nil {
		return
	}
	callCtx, cancel := p.callContext(ctx)
	defer cancel()
	if err := p.deps.Archiver.Archive(callCtx, rec, post); err != nil {
		p.logger.Warn("raw record archival failed", "record_id", rec.RecordID, "dependency", "s3", "error", err)
		p.metrics.ArchiveFailures.Inc()
	}
}

func (p *Processor) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.callTimeout)
}

func failedOutcome(rec domain.InboundRecord, stage string, err error) domain.RecordOutcome {
	return domain.RecordOutcome{
		RecordID:  rec.RecordID,
		Status:    domain.OutcomeFailed,
		Stage:     stage,
		Retryable: domain.IsRetryable(err),
		Err:       err,
	}
}

// eventTime picks the alert timestamp: the post's own timestamp when it has
// one, otherwise the processing time.
func eventTime(post domain.Post) string {
	if post.Timestamp != "" {
		return post.Timestamp
	}
	return domain.Now().UTC().Format(time.RFC3339)
}
