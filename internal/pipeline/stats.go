package pipeline

import "time"

// Summary aggregates the outcome of a batch run.
type Summary struct {
	RunID string

	Total     int // Inputs handed to the batch.
	Completed int
	Failed    int
	// NotRun counts inputs never started because the batch was interrupted.
	NotRun      int
	Interrupted bool

	TotalInputBytes  int64 // Inputs of completed jobs only.
	TotalOutputBytes int64
	Elapsed          time.Duration

	Results []JobResult
}

// OK reports whether every input was converted.
func (s *Summary) OK() bool {
	return s.Failed == 0 && s.NotRun == 0 && !s.Interrupted
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *Summary) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// FailedResults returns the results of failed jobs in batch order.
func (s *Summary) FailedResults() []JobResult {
	var out []JobResult
	for _, r := range s.Results {
		if r.State == StateFailed {
			out = append(out, r)
		}
	}
	return out
}

func (s *Summary) add(r JobResult) {
	s.Results = append(s.Results, r)
	switch r.State {
	case StateCompleted:
		s.Completed++
		s.TotalInputBytes += r.InputBytes
		s.TotalOutputBytes += r.OutputBytes
	case StateFailed:
		s.Failed++
	}
}
