// Package config holds runtime configuration: defaults, the optional TOML
// config file, CLI flag overrides, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/shrinkwrap/internal/preset"
)

// --- Enum types for validated string fields ---

// GPUChoice selects the video encoder backend. The empty value means the
// user is asked interactively.
type GPUChoice string

const (
	GPUAsk GPUChoice = ""    // Prompt before the batch starts.
	GPUOn  GPUChoice = "on"  // h264_nvenc.
	GPUOff GPUChoice = "off" // libx264.
)

// CollisionPolicy decides what happens when an output file already exists.
type CollisionPolicy string

const (
	CollisionAsk       CollisionPolicy = "ask"       // Prompt per file (default).
	CollisionOverwrite CollisionPolicy = "overwrite" // Always overwrite.
	CollisionVersion   CollisionPolicy = "version"   // Always write name_N.ext.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [Load] from an optional TOML file, then by CLI flag overrides,
// and finally by interactive prompts for any batch selection still unset.
type Config struct {
	// Paths.
	WorkDir      string `toml:"work_dir"`      // Default: ".". Inputs are read from here.
	OutputSubdir string `toml:"output_subdir"` // Default: "compressed_files".

	// Batch selections. Zero values mean "ask interactively".
	Extension string          `toml:"extension"`
	Preset    int             `toml:"preset"`
	Format    string          `toml:"format"`
	GPU       GPUChoice       `toml:"gpu"`
	Collision CollisionPolicy `toml:"collision"`
	AssumeYes bool            `toml:"assume_yes"` // Skip the final confirmation.

	// Encoder.
	FFmpegBin   string `toml:"ffmpeg_bin"`   // Default: "ffmpeg".
	FFprobeBin  string `toml:"ffprobe_bin"`  // Default: "ffprobe".
	Threads     int    `toml:"threads"`      // Default: 4.
	KeepPartial bool   `toml:"keep_partial"` // Keep output of failed jobs.

	// Display and logging.
	Verbose      bool      `toml:"verbose"`
	ShowProgress bool      `toml:"show_progress"` // Default: true.
	ColorMode    ColorMode `toml:"color"`         // Default: "auto".
	LogFile      string    `toml:"log_file"`

	CheckOnly bool `toml:"-"` // Run diagnostics and exit.
}

// DefaultConfig returns a Config with every default applied and every batch
// selection left unanswered.
func DefaultConfig() Config {
	return Config{
		WorkDir:      ".",
		OutputSubdir: "compressed_files",
		Collision:    CollisionAsk,
		FFmpegBin:    "ffmpeg",
		FFprobeBin:   "ffprobe",
		Threads:      4,
		ShowProgress: true,
		ColorMode:    ColorAuto,
	}
}

// NormalizeExtension trims whitespace and guarantees a leading dot. An empty
// input stays empty so callers can tell "unset" apart.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// OutputDir returns the directory all outputs are written to.
func (c *Config) OutputDir() string {
	return filepath.Join(c.WorkDir, c.OutputSubdir)
}

// UseGPU reports whether the NVENC encoder was selected.
func (c *Config) UseGPU() bool {
	return c.GPU == GPUOn
}

// Validate checks enum fields and numeric ranges and normalizes the
// extension and format. Preset ids above the catalog range are accepted
// here: the catalog maps them to the Balanced profile with a warning.
func (c *Config) Validate() error {
	switch c.GPU {
	case GPUAsk, GPUOn, GPUOff:
		// valid
	default:
		return fmt.Errorf("invalid gpu value %q (use 'on' or 'off')", c.GPU)
	}

	switch c.Collision {
	case CollisionAsk, CollisionOverwrite, CollisionVersion:
		// valid
	default:
		return fmt.Errorf("invalid collision policy %q (use 'ask', 'overwrite' or 'version')", c.Collision)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Preset < 0 {
		return fmt.Errorf("preset must be between 1 and %d (got %d)", preset.Count, c.Preset)
	}

	if c.Format != "" {
		f, err := preset.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		c.Format = string(f)
	}

	if c.Threads <= 0 {
		return fmt.Errorf("threads must be positive (got %d)", c.Threads)
	}

	sub := strings.TrimSpace(c.OutputSubdir)
	if sub == "" || sub == "." || sub == ".." || filepath.Base(sub) != sub {
		return fmt.Errorf("output_subdir must be a plain directory name (got %q)", c.OutputSubdir)
	}
	c.OutputSubdir = sub

	if strings.TrimSpace(c.WorkDir) == "" {
		c.WorkDir = "."
	}
	c.Extension = NormalizeExtension(c.Extension)
	return nil
}
