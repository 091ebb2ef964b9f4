package pipeline

import (
	"github.com/backmassage/shrinkwrap/internal/preset"
	"github.com/backmassage/shrinkwrap/internal/progress"
)

// JobInfo describes a job that is about to run.
type JobInfo struct {
	Index  int // 1-based position in the batch.
	Total  int
	Input  string
	Output string
	Kind   preset.Kind
	// Duration is the probed input length in seconds, or 0 when unknown.
	Duration float64
}

// Reporter renders job progress. Calls for one job arrive in order:
// JobStarted, any number of JobProgress, JobFinished. JobFinished is also
// called for jobs that fail before starting, without a JobStarted.
type Reporter interface {
	JobStarted(info JobInfo)
	JobProgress(st progress.State)
	JobFinished(res JobResult)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) JobStarted(JobInfo)         {}
func (NopReporter) JobProgress(progress.State) {}
func (NopReporter) JobFinished(JobResult)      {}
