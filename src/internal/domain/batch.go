package domain

// ItemFailure names a batch item that could not be processed and why.
type ItemFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult summarises a batch run. A failed item never aborts the batch.
type BatchResult struct {
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failures  []ItemFailure `json:"failures,omitempty"`
}

func (r *BatchResult) Fail(id string, err error) {
	r.Failures = append(r.Failures, ItemFailure{ID: id, Reason: err.Error()})
}

func (r BatchResult) Processed() int {
	return r.Succeeded + r.Skipped + len(r.Failures)
}
