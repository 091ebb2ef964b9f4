package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/logging"
)

// errReported marks a failure that was already logged; main exits 1 without
// printing it again.
var errReported = errors.New("failed")

func newRootCommand() *cobra.Command {
	var overrides config.Overrides

	rootCmd := &cobra.Command{
		Use:   "shrinkwrap",
		Short: "Batch-compress media files in a directory with ffmpeg",
		Long: `shrinkwrap converts every file with the chosen extension in a directory
to one output format, using one of 16 compression presets. Video is encoded
with h264_nvenc (GPU) or libx264 (CPU); audio formats use their own codec.
Outputs are written to <dir>/compressed_files.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, &overrides)
		},
	}

	config.BindFlags(rootCmd.PersistentFlags(), &overrides)

	rootCmd.AddCommand(newCheckCommand(&overrides))
	rootCmd.AddCommand(newPresetsCommand())
	rootCmd.AddCommand(newScanCommand(&overrides))

	return rootCmd
}

// loadConfig builds the effective config: defaults, then the config file,
// then flags the user passed. It then validates and opens the logger.
func loadConfig(cmd *cobra.Command, o *config.Overrides) (*config.Config, *logging.Logger, error) {
	cfg, source, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	o.Apply(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return nil, nil, err
	}
	if source != "" {
		log.Debug("Config: %s", source)
	}
	return &cfg, log, nil
}
