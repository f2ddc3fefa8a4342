// Command replay runs a JSONL fixture (see cmd/genmock) through the real
// alerting pipeline with local stand-ins for every external service: entity
// detection reports neutral sentiment with no mentions, summaries are
// truncations, and alerts print to stdout. Useful for eyeballing alert
// formatting and failure accounting without AWS credentials.
//
// Usage:
//
//	go run ./cmd/replay -in data/mock/posts.jsonl
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fieqah-faisal/rescuties/internal/adapter/bedrock"
	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
	"github.com/fieqah-faisal/rescuties/internal/pipeline"
)

type envelope struct {
	EventID string `json:"eventID"`
	Kinesis struct {
		Data           string `json:"data"`
		SequenceNumber string `json:"sequenceNumber"`
		PartitionKey   string `json:"partitionKey"`
	} `json:"kinesis"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	in := flag.String("in", "", "path to the JSONL fixture")
	verbose := flag.Bool("v", false, "print full alert messages")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -in")
	}

	records, err := loadRecords(*in)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	printer := &printingPublisher{verbose: *verbose}
	processor := pipeline.NewProcessor(pipeline.Deps{
		Entities:   neutralDetector{},
		Summarizer: bedrock.TruncationSummarizer{},
		Publisher:  printer,
	}, logger, metrics, 0, 4)

	result := processor.ProcessBatch(context.Background(), records)
	summary := result.Summary()

	fmt.Printf("\nprocessed=%d failed=%d total=%d\n", summary.Processed, summary.Failed, summary.Total)
	for _, out := range result.Outcomes {
		if out.Status == domain.OutcomeFailed {
			fmt.Printf("  failed %s at %s (retryable=%t): %v\n", out.RecordID, out.Stage, out.Retryable, out.Err)
		}
	}
	bySeverity := printer.counts()
	fmt.Printf("alerts: high=%d medium=%d low=%d\n",
		bySeverity[domain.SeverityHigh], bySeverity[domain.SeverityMedium], bySeverity[domain.SeverityLow])
	return nil
}

func loadRecords(path string) ([]domain.InboundRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []domain.InboundRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var env envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		records = append(records, domain.InboundRecord{
			RecordID:     env.EventID,
			Data:         []byte(env.Kinesis.Data),
			SequenceID:   env.Kinesis.SequenceNumber,
			PartitionKey: env.Kinesis.PartitionKey,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// neutralDetector stands in for the NLP service: no location mentions,
// neutral sentiment. Severity classification still works because it reads
// the post itself.
type neutralDetector struct{}

func (neutralDetector) Detect(_ context.Context, _ string) (domain.EntityAnnotations, error) {
	return domain.EntityAnnotations{Sentiment: domain.SentimentNeutral}, nil
}

// printingPublisher prints alerts to stdout and tallies them by severity.
type printingPublisher struct {
	verbose bool

	mu    sync.Mutex
	tally map[domain.Severity]int
}

func (p *printingPublisher) Publish(_ context.Context, alert domain.Alert, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tally == nil {
		p.tally = make(map[domain.Severity]int)
	}
	p.tally[alert.Severity]++
	if p.verbose {
		fmt.Printf("--- %s ---\n%s\n\n", alert.Subject(), message)
	}
	return nil
}

func (p *printingPublisher) counts() map[domain.Severity]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tally == nil {
		return map[domain.Severity]int{}
	}
	return p.tally
}
