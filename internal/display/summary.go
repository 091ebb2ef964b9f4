package display

import (
	"fmt"
	"io"

	"github.com/backmassage/shrinkwrap/internal/pipeline"
)

// Logger is the subset of *logging.Logger used for summaries.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// LogSummary prints the per-file table to w and the batch totals to log.
func LogSummary(w io.Writer, log Logger, sum *pipeline.Summary) {
	log.Info("==============================")
	if len(sum.Results) > 0 {
		fmt.Fprintln(w, SummaryTable(sum))
	}
	log.Info("Done: %d converted, %d failed, %d not run (run %s, %s)",
		sum.Completed, sum.Failed, sum.NotRun, sum.RunID, FormatElapsed(sum.Elapsed))

	if sum.Completed > 0 {
		saved := sum.SpaceSaved()
		if saved >= 0 {
			log.Success("Total space saved: %s (input %s -> output %s)",
				FormatBytes(saved),
				FormatBytes(sum.TotalInputBytes),
				FormatBytes(sum.TotalOutputBytes))
		} else {
			log.Warn("Total space saved: %s (overall output is larger)", FormatBytes(saved))
		}
	}

	for _, r := range sum.FailedResults() {
		msg := fmt.Sprintf("Failed: %s: %v", r.Input, r.Err)
		if r.Hint != "" {
			msg += " (" + r.Hint + ")"
		}
		log.Error("%s", msg)
	}
	if sum.Interrupted {
		log.Warn("Batch was interrupted")
	}
}
