package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/shrinkwrap/internal/ffmpeg"
	"github.com/backmassage/shrinkwrap/internal/logging"
	"github.com/backmassage/shrinkwrap/internal/naming"
	"github.com/backmassage/shrinkwrap/internal/planner"
	"github.com/backmassage/shrinkwrap/internal/preset"
	"github.com/backmassage/shrinkwrap/internal/probe"
)

// Prober is the subset of *probe.Prober the pipeline needs.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.Info, error)
	Duration(ctx context.Context, path string) (float64, error)
}

// Batch converts a list of inputs sequentially with one shared set of
// Settings. Fields other than Settings and OutputDir are optional; nil
// collaborators get working defaults in Run.
type Batch struct {
	Settings  planner.Settings
	OutputDir string
	FFmpeg    ffmpeg.BuildOptions

	Starter  ffmpeg.Starter
	Prober   Prober
	Exists   naming.ExistsFunc
	Choose   naming.ChoiceFunc
	Reporter Reporter
	Log      *logging.Logger

	KeepPartial bool
	RunID       string // Generated when empty.
}

func (b *Batch) defaults() {
	if b.Starter == nil {
		b.Starter = ffmpeg.ExecStarter{}
	}
	if b.Exists == nil {
		b.Exists = naming.FileExists
	}
	if b.Reporter == nil {
		b.Reporter = NopReporter{}
	}
	if b.Log == nil {
		b.Log = logging.Nop()
	}
	if b.RunID == "" {
		b.RunID = uuid.NewString()
	}
}

// Run converts files in order. The returned error is batch-fatal only: no
// inputs, an unusable output directory, or a held lock. Per-file failures
// are recorded in the Summary and never stop the batch; cancelling ctx kills
// the running encoder and stops before the next file.
func (b *Batch) Run(ctx context.Context, files []string) (Summary, error) {
	b.defaults()
	sum := Summary{RunID: b.RunID, Total: len(files)}

	if len(files) == 0 {
		return sum, ErrNoInputs
	}
	if b.OutputDir == "" {
		return sum, errors.New("no output directory set")
	}

	// The output directory is created only once there is something to write.
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return sum, fmt.Errorf("create output directory: %w", err)
	}
	lock, err := lockDir(b.OutputDir)
	if err != nil {
		return sum, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			b.Log.Warn("Could not release output lock: %v", err)
		}
	}()

	b.logBatchHeader(len(files))

	start := time.Now()
	for i, path := range files {
		if ctx.Err() != nil {
			sum.NotRun = len(files) - i
			break
		}

		res := b.runJob(ctx, i+1, len(files), path)
		if !res.State.Terminal() {
			res.fail(fmt.Errorf("job stopped in state %s", res.State))
		}
		b.Reporter.JobFinished(res)
		b.logJobResult(res)
		sum.add(res)
	}
	if ctx.Err() != nil {
		sum.Interrupted = true
		b.Log.Warn("Interrupted, %d file(s) not converted", sum.NotRun)
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}

// --- Logging helpers ---

func (b *Batch) logBatchHeader(n int) {
	s := b.Settings
	b.Log.Info("Run %s: %d file(s) -> %s", b.RunID, n, b.OutputDir)
	b.Log.Info("Format: %s (%s)", s.Format, s.Format.Kind())
	if s.Format.Kind() != preset.KindVideo {
		return
	}
	encoder := ffmpeg.CPUCodec
	if s.UseGPU {
		encoder = ffmpeg.GPUCodec
	}
	b.Log.Info("Preset: %d - %s", s.PresetID, s.PresetID.Name())
	b.Log.Info("Encoder: %s, %s", encoder, s.Params)
}

func (b *Batch) logJobResult(r JobResult) {
	name := filepath.Base(r.Input)
	switch r.State {
	case StateCompleted:
		b.Log.Success("%s %s in %ds (%d%% of original)",
			kindLabel(b.Settings.Format.Kind()), name, int(r.Elapsed.Seconds()), r.Ratio())
	case StateFailed:
		b.Log.Error("Failed %s (%s): %v", name, r.FailedIn, r.Err)
		if r.Hint != "" {
			b.Log.Error("  Hint: %s", r.Hint)
		}
		if len(r.Tail) > 0 {
			b.Log.Error("Last ffmpeg output:")
			for _, l := range r.Tail {
				b.Log.Error("  %s", l)
			}
		}
	}
}
