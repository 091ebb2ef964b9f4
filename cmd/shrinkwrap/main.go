// Command shrinkwrap converts every file with a given extension in a
// directory to one output format through ffmpeg, using a compression preset.
//
// Selections not given as flags or config keys are asked for interactively.
// Subcommands: check (system diagnostics), presets (list presets and
// formats), scan (probe inputs and flag bitrate outliers).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "shrinkwrap: %v\n", err)
		}
		os.Exit(1)
	}
}
