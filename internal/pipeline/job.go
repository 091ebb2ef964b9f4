package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/shrinkwrap/internal/ffmpeg"
	"github.com/backmassage/shrinkwrap/internal/naming"
	"github.com/backmassage/shrinkwrap/internal/preset"
	"github.com/backmassage/shrinkwrap/internal/progress"
)

// JobState is the lifecycle position of one input file.
type JobState int

const (
	StatePending JobState = iota
	StatePathResolved
	StateCommandBuilt
	StateRunning
	StateCompleted
	StateFailed
)

func (s JobState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StatePathResolved:
		return "path-resolved"
	case StateCommandBuilt:
		return "command-built"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool { return s == StateCompleted || s == StateFailed }

// JobResult is the outcome of one input file.
type JobResult struct {
	Index  int
	Input  string
	Output string // Empty when the output path was never resolved.
	State  JobState
	// FailedIn is the state the job was in when it failed.
	FailedIn JobState

	ExitCode int // -1 when the encoder never started or was killed.
	Err      error
	Hint     string   // Short diagnosis of encoder stderr, if any.
	Tail     []string // Last encoder stderr lines on failure.

	Elapsed     time.Duration
	InputBytes  int64
	OutputBytes int64
	Spikes      int
}

// Ratio returns output size as a percentage of input size.
func (r JobResult) Ratio() int64 {
	if r.InputBytes <= 0 {
		return 100
	}
	return r.OutputBytes * 100 / r.InputBytes
}

// fail moves the result to Failed, remembering where it happened.
func (r *JobResult) fail(err error) {
	r.FailedIn = r.State
	r.State = StateFailed
	r.Err = err
}

// runJob drives one input through the job state machine. It never returns
// an error: every failure is recorded in the result.
func (b *Batch) runJob(ctx context.Context, index, total int, input string) JobResult {
	res := JobResult{Index: index, Input: input, State: StatePending, ExitCode: -1}
	name := filepath.Base(input)
	b.Log.Info("[%d/%d] %s", index, total, name)

	if fi, err := os.Stat(input); err == nil {
		res.InputBytes = fi.Size()
	} else {
		res.fail(fmt.Errorf("stat input: %w", err))
		return res
	}

	// --- Resolve output path ---
	candidate := naming.OutputPath(input, b.OutputDir, string(b.Settings.Format))
	out, err := naming.ResolveOutput(ctx, candidate, b.Exists, b.Choose)
	if err != nil {
		res.fail(err)
		return res
	}
	res.Output = out
	res.State = StatePathResolved
	if out != candidate {
		b.Log.Info("  Output exists, writing %s", filepath.Base(out))
	}

	// --- Build command ---
	job := b.Settings.Job(input, out)
	argv, err := ffmpeg.Build(job, b.FFmpeg)
	if err != nil {
		res.fail(fmt.Errorf("build command: %w", err))
		return res
	}
	res.State = StateCommandBuilt
	if b.Log.Verbose() {
		b.Log.Render("  %s", strings.Join(argv, " "))
	}

	// --- Probe duration (video only; failure degrades to elapsed time) ---
	info := JobInfo{Index: index, Total: total, Input: input, Output: out, Kind: job.Kind}
	if job.IsVideo() && b.Prober != nil {
		d, err := b.Prober.Duration(ctx, input)
		if err != nil {
			b.Log.Warn("  Duration unknown, showing elapsed time only: %v", err)
		} else {
			info.Duration = d
		}
	}

	before, existedBefore := statFile(out)

	// --- Run encoder ---
	parser := progress.NewParser(info.Duration)
	res.State = StateRunning
	b.Reporter.JobStarted(info)
	start := time.Now()
	run := ffmpeg.Execute(ctx, b.Starter, argv, func(line string) {
		if !parser.Feed(line) {
			if b.Log.Verbose() && strings.TrimSpace(line) != "" {
				b.Log.Debug("  ffmpeg: %s", line)
			}
			return
		}
		st := parser.State()
		if st.LastSpiked && st.Spikes == 1 {
			b.Log.Outlier("  Encoder time %.1fs is past the probed duration %.1fs", st.Elapsed, st.Total)
		}
		b.Reporter.JobProgress(st)
	})
	res.Elapsed = time.Since(start)
	res.ExitCode = run.ExitCode
	res.Spikes = parser.State().Spikes

	if !run.Success() {
		err := run.Err
		if err == nil {
			err = fmt.Errorf("encoder exited with status %d", run.ExitCode)
		}
		res.fail(err)
		res.Tail = run.Tail
		res.Hint = ffmpeg.DiagnoseLines(run.Tail)
		b.cleanupPartial(out, before, existedBefore)
		return res
	}

	if after, ok := statFile(out); ok {
		res.OutputBytes = after.Size()
	}
	res.State = StateCompleted
	return res
}

// cleanupPartial removes the output of a failed job unless KeepPartial is
// set. An output that existed before the job and was left untouched by the
// encoder is not the job's to remove.
func (b *Batch) cleanupPartial(out string, before os.FileInfo, existedBefore bool) {
	if b.KeepPartial {
		return
	}
	after, ok := statFile(out)
	if !ok {
		return
	}
	if existedBefore && after.Size() == before.Size() && after.ModTime().Equal(before.ModTime()) {
		return
	}
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		b.Log.Warn("  Could not remove partial output %s: %v", filepath.Base(out), err)
		return
	}
	b.Log.Debug("  Removed partial output %s", filepath.Base(out))
}

func statFile(path string) (os.FileInfo, bool) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, false
	}
	return fi, true
}

// kindLabel is the verb used in per-job log lines.
func kindLabel(k preset.Kind) string {
	if k == preset.KindAudio {
		return "Converted"
	}
	return "Encoded"
}
