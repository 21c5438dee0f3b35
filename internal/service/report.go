package service

// Failure records one skipped unit of work (a page or a detail batch) so
// callers can see how much of the run degraded instead of digging through
// logs.
type Failure struct {
	Unit   string `json:"unit"`
	Reason string `json:"reason"`
}

// Report accumulates per-unit outcomes over one ingestion run.
type Report struct {
	PagesFetched   int       `json:"pages_fetched"`
	BatchesFetched int       `json:"batches_fetched"`
	ItemsDropped   int       `json:"items_dropped"`
	Failures       []Failure `json:"failures,omitempty"`
}

func (r *Report) recordFailure(unit string, err error) {
	r.Failures = append(r.Failures, Failure{Unit: unit, Reason: err.Error()})
}

// Partial reports whether any unit of work was lost.
func (r *Report) Partial() bool {
	return len(r.Failures) > 0
}
