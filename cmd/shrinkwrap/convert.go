package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/shrinkwrap/internal/check"
	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/display"
	"github.com/backmassage/shrinkwrap/internal/ffmpeg"
	"github.com/backmassage/shrinkwrap/internal/logging"
	"github.com/backmassage/shrinkwrap/internal/naming"
	"github.com/backmassage/shrinkwrap/internal/pipeline"
	"github.com/backmassage/shrinkwrap/internal/planner"
	"github.com/backmassage/shrinkwrap/internal/preset"
	"github.com/backmassage/shrinkwrap/internal/probe"
	"github.com/backmassage/shrinkwrap/internal/prompt"
	"github.com/backmassage/shrinkwrap/internal/term"
)

// runConvert is the default command: select, confirm, convert, summarize.
func runConvert(cmd *cobra.Command, o *config.Overrides) error {
	cfg, log, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, cfg, log) {
			return errReported
		}
		return nil
	}

	ask := prompt.Stdio()

	// 1. Inputs. Nothing else is asked when the extension matches no file.
	if cfg.Extension == "" {
		ext, err := ask.Extension(ctx)
		if err != nil {
			return failPrompt(log, fmt.Errorf("extension: %w", err))
		}
		cfg.Extension = ext
	}
	files, err := pipeline.Discover(cfg.WorkDir, cfg.Extension)
	if err != nil {
		return fail(log, "%v", err)
	}
	if len(files) == 0 {
		return fail(log, "No files with extension %s found in %s", cfg.Extension, cfg.WorkDir)
	}
	log.Success("%d file(s) with extension %s found", len(files), cfg.Extension)

	// 2. Remaining selections.
	if err := askSelections(ctx, ask, cfg); err != nil {
		return failPrompt(log, err)
	}
	settings, err := planner.Resolve(cfg, log.Warn)
	if err != nil {
		return fail(log, "%v", err)
	}
	logSelections(log, cfg, settings)

	if !cfg.AssumeYes {
		ok, err := ask.YesNo(ctx, "Continue with compression?")
		if err != nil {
			return failPrompt(log, err)
		}
		if !ok {
			return fail(log, "Compression canceled by user")
		}
	}

	// 3. Tools, then the batch. Without ffprobe jobs still run, showing
	// elapsed time instead of a percentage.
	if err := check.CheckDeps(ctx, cfg, settings); err != nil {
		return fail(log, "%v", err)
	}
	if err := check.CheckProber(cfg); err != nil {
		log.Warn("%v; progress will show elapsed time only", err)
	}

	batch := &pipeline.Batch{
		Settings:    settings,
		OutputDir:   cfg.OutputDir(),
		FFmpeg:      ffmpeg.BuildOptions{Binary: cfg.FFmpegBin, Verbose: cfg.Verbose},
		Starter:     ffmpeg.ExecStarter{},
		Prober:      probe.New(cfg.FFprobeBin),
		Choose:      chooser(cfg.Collision, ask),
		Reporter:    display.NewProgressReporter(os.Stderr, cfg.ShowProgress && term.IsTerminal(os.Stderr)),
		Log:         log,
		KeepPartial: cfg.KeepPartial,
	}
	sum, err := batch.Run(ctx, files)
	if err != nil {
		return fail(log, "%v", err)
	}

	display.LogSummary(log.Writer(), log, &sum)
	if !sum.OK() {
		return errReported
	}
	if ctx.Err() != nil {
		return context.Canceled
	}
	return nil
}

// askSelections prompts for preset, format, and GPU use when they were not
// given. The GPU question is skipped for audio formats.
func askSelections(ctx context.Context, ask *prompt.Prompter, cfg *config.Config) error {
	if cfg.Preset == 0 {
		id, err := ask.Preset(ctx, display.PresetTable())
		if err != nil {
			return err
		}
		cfg.Preset = int(id)
	}
	if cfg.Format == "" {
		f, err := ask.Format(ctx, display.FormatTable())
		if err != nil {
			return err
		}
		cfg.Format = string(f)
	}
	if cfg.GPU == config.GPUAsk && preset.Format(cfg.Format).Kind() == preset.KindVideo {
		on, err := ask.GPU(ctx)
		if err != nil {
			return err
		}
		cfg.GPU = config.GPUOff
		if on {
			cfg.GPU = config.GPUOn
		}
	}
	return nil
}

// chooser maps the collision policy to a naming.ChoiceFunc.
func chooser(policy config.CollisionPolicy, ask *prompt.Prompter) naming.ChoiceFunc {
	switch policy {
	case config.CollisionOverwrite:
		return naming.Always(naming.Overwrite)
	case config.CollisionVersion:
		return naming.Always(naming.Version)
	default:
		return ask.Collision
	}
}

func logSelections(log *logging.Logger, cfg *config.Config, s planner.Settings) {
	log.Info("Selections:")
	log.Info("  File extension: %s", cfg.Extension)
	if s.Format.Kind() == preset.KindVideo {
		log.Info("  Preset: %d - %s (%s)", s.PresetID, s.PresetID.Name(), s.Params)
		gpu := "No"
		if s.UseGPU {
			gpu = "Yes"
		}
		log.Info("  Using GPU: %s", gpu)
	}
	log.Info("  Output format: %s", s.Format)
	log.Info("  Output directory: %s", cfg.OutputDir())
}

// failPrompt ends the run after a prompt error. An interrupted prompt ends
// quietly with context.Canceled.
func failPrompt(log *logging.Logger, err error) error {
	if errors.Is(err, context.Canceled) {
		log.Warn("Interrupted")
		return context.Canceled
	}
	return fail(log, "%v", err)
}

// fail logs a fatal message and returns errReported.
func fail(log *logging.Logger, format string, args ...interface{}) error {
	log.Error(format, args...)
	return errReported
}
