package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/shrinkwrap/internal/check"
	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/display"
	"github.com/backmassage/shrinkwrap/internal/pipeline"
	"github.com/backmassage/shrinkwrap/internal/probe"
	"github.com/backmassage/shrinkwrap/internal/prompt"
)

func newCheckCommand(o *config.Overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report ffmpeg, ffprobe, and encoder availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			defer log.Close()

			if !check.RunCheck(cmd.Context(), cfg, log) {
				return errReported
			}
			return nil
		},
	}
}

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List compression presets and output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.PresetTable())
			fmt.Fprintln(out)
			fmt.Fprintln(out, display.FormatTable())
			return nil
		},
	}
}

func newScanCommand(o *config.Overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Probe matching inputs and flag bitrate outliers without converting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Extension == "" {
				ext, err := prompt.Stdio().Extension(ctx)
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

			prober := probe.New(cfg.FFprobeBin)
			infos, bounds := pipeline.Inspect(ctx, prober, files, func(i, total int, path string) {
				log.Debug("Probing %d/%d: %s", i, total, filepath.Base(path))
			})
			fmt.Fprintln(log.Writer(), display.InspectTable(infos))

			if bounds.Valid {
				log.Info("Bitrate IQR: Q1 %s, Q3 %s, outlier above %s",
					display.FormatBitrateLabel(int64(bounds.Q1)),
					display.FormatBitrateLabel(int64(bounds.Q3)),
					display.FormatBitrateLabel(int64(bounds.OutlierHi)))
			}
			var flagged, failed int
			for _, in := range infos {
				switch {
				case in.Err != nil:
					failed++
				case in.Class != pipeline.ClassNormal:
					flagged++
					log.Outlier("%s: %s bitrate (%s)", filepath.Base(in.Path), in.Class, display.FormatBitrateLabel(in.BitrateKbps))
				}
			}
			log.Info("Scanned %d file(s): %d outlier(s), %d probe failure(s)", len(infos), flagged, failed)
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
}
