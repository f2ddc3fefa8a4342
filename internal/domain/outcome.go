package domain

// OutcomeStatus is the per-record verdict.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// RecordOutcome is the structured result of processing one inbound record.
// Every record yields exactly one outcome. Suppressed marks a success where
// alerting was deliberately skipped (empty post text). Retryable is false for
// permanent failures (malformed records) so the source does not redeliver
// poison messages.
type RecordOutcome struct {
	RecordID   string
	Status     OutcomeStatus
	Stage      string // stage that failed, empty on success
	Retryable  bool
	Suppressed bool
	Err        error
}

// BatchSummary is the summary-contract projection of a batch result.
type BatchSummary struct {
	Processed int `json:"processed_records"`
	Failed    int `json:"failed_records"`
	Total     int `json:"total_records"`
}

// BatchResult aggregates record outcomes for one batch. Both output
// contracts are projections of the same outcome set: Summary for
// summary-reporting, FailedIDs for retry-by-source.
type BatchResult struct {
	Outcomes []RecordOutcome
}

// Summary counts successes and failures across the batch.
func (r BatchResult) Summary() BatchSummary {
	s := BatchSummary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSuccess {
			s.Processed++
		} else {
			s.Failed++
		}
	}
	return s
}

// FailedIDs lists the identifiers of failed records, in batch order.
func (r BatchResult) FailedIDs() []string {
	var ids []string
	for _, o := range r.Outcomes {
		if o.Status == OutcomeFailed {
			ids = append(ids, o.RecordID)
		}
	}
	return ids
}
