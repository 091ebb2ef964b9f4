package display

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/shrinkwrap/internal/pipeline"
	"github.com/backmassage/shrinkwrap/internal/progress"
	"github.com/backmassage/shrinkwrap/internal/term"
)

// barScale turns a percentage into bar units so tenths of a percent render.
const barScale = 10

// ProgressReporter renders a progress bar per job. Jobs with a known
// duration get a percentage bar colored by tier; the rest get a spinner with
// the elapsed encoder time.
type ProgressReporter struct {
	w       io.Writer
	enabled bool
	color   bool

	bar   *progressbar.ProgressBar
	info  pipeline.JobInfo
	start time.Time
}

var _ pipeline.Reporter = (*ProgressReporter)(nil)

// NewProgressReporter returns a reporter writing to w. When enabled is
// false every call is a no-op and log lines alone describe progress.
func NewProgressReporter(w io.Writer, enabled bool) *ProgressReporter {
	return &ProgressReporter{w: w, enabled: enabled, color: term.Enabled()}
}

// JobStarted implements pipeline.Reporter.
func (r *ProgressReporter) JobStarted(info pipeline.JobInfo) {
	if !r.enabled {
		return
	}
	r.info = info
	r.start = time.Now()

	units := -1
	if info.Duration > 0 {
		units = 100 * barScale
	}
	r.bar = progressbar.NewOptions(units,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(r.describe(progress.State{})),
		progressbar.OptionSetWidth(30),
		progressbar.OptionEnableColorCodes(r.color),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// JobProgress implements pipeline.Reporter.
func (r *ProgressReporter) JobProgress(st progress.State) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(r.describe(st))
	if st.HasTotal {
		_ = r.bar.Set(int(st.Percent * barScale))
	} else {
		_ = r.bar.Add(1)
	}
}

// JobFinished implements pipeline.Reporter.
func (r *ProgressReporter) JobFinished(pipeline.JobResult) {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}

// describe builds the label left of the bar:
//
//	[2/5] clip.mov 00:01:10/00:04:00 29.2%
func (r *ProgressReporter) describe(st progress.State) string {
	label := fmt.Sprintf("[%d/%d] %s %s", r.info.Index, r.info.Total, filepath.Base(r.info.Input), FormatClock(st.Elapsed))
	tier, ok := st.Tier()
	if !ok {
		return label
	}
	label += "/" + FormatClock(st.Total)
	pct := fmt.Sprintf("%5.1f%%", st.Percent)
	if r.color {
		pct = tierTag(tier) + pct + "[reset]"
	}
	return label + " " + pct
}

// tierTag returns the progressbar color code for a tier.
func tierTag(t progress.Tier) string {
	switch t {
	case progress.TierLow:
		return "[red]"
	case progress.TierMid:
		return "[yellow]"
	default:
		return "[green]"
	}
}
