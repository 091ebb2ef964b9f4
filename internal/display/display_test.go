package display

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/pipeline"
	"github.com/backmassage/shrinkwrap/internal/preset"
	"github.com/backmassage/shrinkwrap/internal/progress"
	"github.com/backmassage/shrinkwrap/internal/term"
)

type memLogger struct{ lines []string }

func (m *memLogger) add(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}
func (m *memLogger) Info(f string, a ...interface{})    { m.add("INFO", f, a...) }
func (m *memLogger) Success(f string, a ...interface{}) { m.add("SUCCESS", f, a...) }
func (m *memLogger) Warn(f string, a ...interface{})    { m.add("WARN", f, a...) }
func (m *memLogger) Error(f string, a ...interface{})   { m.add("ERROR", f, a...) }

func (m *memLogger) joined() string { return strings.Join(m.lines, "\n") }

func sampleSummary() *pipeline.Summary {
	sum := &pipeline.Summary{
		RunID:            "run-1",
		Total:            3,
		Completed:        2,
		Failed:           1,
		TotalInputBytes:  4 << 20,
		TotalOutputBytes: 1 << 20,
		Elapsed:          95 * time.Second,
	}
	sum.Results = []pipeline.JobResult{
		{Index: 1, Input: "/in/a.mov", Output: "/in/compressed_files/a.mp4", State: pipeline.StateCompleted, InputBytes: 2 << 20, OutputBytes: 1 << 19},
		{Index: 2, Input: "/in/b.mov", Output: "/in/compressed_files/b.mp4", State: pipeline.StateFailed, Err: errors.New("exit status 1"), Hint: "output disk is full", InputBytes: 1 << 20},
		{Index: 3, Input: "/in/c.mov", Output: "/in/compressed_files/c.mp4", State: pipeline.StateCompleted, InputBytes: 2 << 20, OutputBytes: 1 << 19},
	}
	return sum
}

func TestPresetTable(t *testing.T) {
	term.Configure(config.ColorNever)
	out := PresetTable()
	for _, p := range preset.All() {
		assert.Contains(t, out, p.Name)
	}
	assert.Contains(t, out, "lossless (qp 0)")
	assert.Contains(t, out, "vbr q23 8M (max 12M, buf 18M)")
	assert.Contains(t, out, "aac 384k")
}

func TestFormatTable(t *testing.T) {
	out := FormatTable()
	assert.Contains(t, out, "libmp3lame")
	assert.Contains(t, out, "h264_nvenc / libx264")
	assert.Contains(t, out, "13")
}

func TestSummaryTable(t *testing.T) {
	term.Configure(config.ColorNever)
	out := SummaryTable(sampleSummary())
	assert.Contains(t, out, "a.mov")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "2.0 MiB -> 512.0 KiB")
}

func TestLogSummary(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	log := &memLogger{}

	LogSummary(&buf, log, sampleSummary())

	all := log.joined()
	assert.Contains(t, all, "Done: 2 converted, 1 failed, 0 not run (run run-1, 1m35s)")
	assert.Contains(t, all, "SUCCESS Total space saved: 3.0 MiB")
	assert.Contains(t, all, "ERROR Failed: /in/b.mov: exit status 1 (output disk is full)")
	assert.NotContains(t, all, "interrupted")
	assert.Contains(t, buf.String(), "c.mp4")
}

func TestLogSummary_GrewAndInterrupted(t *testing.T) {
	log := &memLogger{}
	sum := &pipeline.Summary{Completed: 1, TotalInputBytes: 100, TotalOutputBytes: 2148, Interrupted: true, NotRun: 2}

	LogSummary(&bytes.Buffer{}, log, sum)

	all := log.joined()
	assert.Contains(t, all, "WARN Total space saved: -2.0 KiB")
	assert.Contains(t, all, "WARN Batch was interrupted")
}

func TestProgressReporter_Disabled(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgressReporter(&buf, false)
	r.JobStarted(pipeline.JobInfo{Index: 1, Total: 1, Input: "a.mov", Duration: 10})
	r.JobProgress(progress.State{Elapsed: 5, Total: 10, HasTotal: true, Percent: 50})
	r.JobFinished(pipeline.JobResult{})
	assert.Zero(t, buf.Len())
}

func TestProgressReporter_Lifecycle(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	r := NewProgressReporter(&buf, true)

	r.JobStarted(pipeline.JobInfo{Index: 2, Total: 5, Input: "/in/clip.mov", Duration: 240})
	require.NotNil(t, r.bar)
	r.JobProgress(progress.State{Elapsed: 70, Total: 240, HasTotal: true, Percent: 29.166})
	r.JobFinished(pipeline.JobResult{})
	assert.Nil(t, r.bar)

	// Unknown duration uses a spinner.
	r.JobStarted(pipeline.JobInfo{Index: 3, Total: 5, Input: "raw.h264"})
	r.JobProgress(progress.State{Elapsed: 3})
	r.JobFinished(pipeline.JobResult{})
	assert.Nil(t, r.bar)
}

func TestDescribe(t *testing.T) {
	r := &ProgressReporter{info: pipeline.JobInfo{Index: 2, Total: 5, Input: "/in/clip.mov"}}

	got := r.describe(progress.State{Elapsed: 70, Total: 240, HasTotal: true, Percent: 29.166})
	assert.Equal(t, "[2/5] clip.mov 00:01:10/00:04:00  29.2%", got)

	assert.Equal(t, "[2/5] clip.mov 00:00:03", r.describe(progress.State{Elapsed: 3}))

	r.color = true
	got = r.describe(progress.State{Elapsed: 10, Total: 100, HasTotal: true, Percent: 10})
	assert.Contains(t, got, "[red]")
	got = r.describe(progress.State{Elapsed: 30, Total: 100, HasTotal: true, Percent: 30})
	assert.Contains(t, got, "[yellow]")
	got = r.describe(progress.State{Elapsed: 90, Total: 100, HasTotal: true, Percent: 90})
	assert.Contains(t, got, "[green]")
}

func TestPrintBanner(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
