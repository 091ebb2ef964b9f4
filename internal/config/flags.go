package config

// This file binds CLI flags. Flags are parsed into an Overrides value rather
// than straight into Config so that a value from the config file survives
// unless the flag was actually passed.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Overrides captures flag values before they are applied to a Config.
type Overrides struct {
	ConfigPath string

	workDir      string
	outputSubdir string
	extension    string
	preset       int
	format       string
	gpu          GPUChoice
	collision    CollisionPolicy
	assumeYes    bool
	ffmpegBin    string
	ffprobeBin   string
	threads      int
	keepPartial  bool
	verbose      bool
	noProgress   bool
	color        ColorMode
	logFile      string
	checkOnly    bool
}

// BindFlags registers every config flag on fs.
func BindFlags(fs *pflag.FlagSet, o *Overrides) {
	d := DefaultConfig()

	fs.StringVar(&o.ConfigPath, "config", "", "Config file (default: ./"+DefaultFileName+" when present)")

	// Selections.
	fs.StringVarP(&o.extension, "ext", "e", "", "Extension of the files to convert (e.g. mp4 or .mp3)")
	fs.IntVarP(&o.preset, "preset", "p", 0, "Compression preset 1-16 (see 'presets')")
	fs.StringVarP(&o.format, "format", "f", "", "Output format: mp4 mkv mov avi flv mp3 flac wav ogg aac m4a opus wma")
	fs.Var(&gpuValue{&o.gpu}, "gpu", "Video encoder: on (h264_nvenc) | off (libx264)")
	fs.Var(&collisionValue{&o.collision}, "collision", "Existing output: ask | overwrite | version")
	fs.BoolVarP(&o.assumeYes, "yes", "y", false, "Start without the final confirmation")

	// Paths and encoder.
	fs.StringVarP(&o.workDir, "dir", "C", d.WorkDir, "Directory to read inputs from")
	fs.StringVar(&o.outputSubdir, "output-subdir", d.OutputSubdir, "Output subdirectory name")
	fs.StringVar(&o.ffmpegBin, "ffmpeg", d.FFmpegBin, "ffmpeg binary")
	fs.StringVar(&o.ffprobeBin, "ffprobe", d.FFprobeBin, "ffprobe binary")
	fs.IntVar(&o.threads, "threads", d.Threads, "Encoder worker threads for video jobs")
	fs.BoolVar(&o.keepPartial, "keep-partial", false, "Keep partial output of failed jobs")

	// Display.
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&o.noProgress, "no-progress", false, "Disable the live progress bar")
	fs.Var(&colorModeValue{&o.color}, "color", "Colored output: auto | always | never")
	fs.StringVarP(&o.logFile, "log", "l", "", "Append logs to file")
	fs.BoolVar(&o.checkOnly, "check", false, "Run system diagnostics and exit")
}

// Apply copies every flag the user passed into cfg.
func (o *Overrides) Apply(fs *pflag.FlagSet, cfg *Config) {
	set := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if set("dir") {
		cfg.WorkDir = o.workDir
	}
	if set("output-subdir") {
		cfg.OutputSubdir = o.outputSubdir
	}
	if set("ext") {
		cfg.Extension = o.extension
	}
	if set("preset") {
		cfg.Preset = o.preset
	}
	if set("format") {
		cfg.Format = o.format
	}
	if set("gpu") {
		cfg.GPU = o.gpu
	}
	if set("collision") {
		cfg.Collision = o.collision
	}
	if set("yes") {
		cfg.AssumeYes = o.assumeYes
	}
	if set("ffmpeg") {
		cfg.FFmpegBin = o.ffmpegBin
	}
	if set("ffprobe") {
		cfg.FFprobeBin = o.ffprobeBin
	}
	if set("threads") {
		cfg.Threads = o.threads
	}
	if set("keep-partial") {
		cfg.KeepPartial = o.keepPartial
	}
	if set("verbose") {
		cfg.Verbose = o.verbose
	}
	if set("no-progress") {
		cfg.ShowProgress = !o.noProgress
	}
	if set("color") {
		cfg.ColorMode = o.color
	}
	if set("log") {
		cfg.LogFile = o.logFile
	}
	if set("check") {
		cfg.CheckOnly = o.checkOnly
	}
}

// pflag.Value adapters so enum types can be used with fs.Var.

type gpuValue struct{ p *GPUChoice }

func (g *gpuValue) String() string { return string(*g.p) }
func (g *gpuValue) Type() string   { return "on|off" }
func (g *gpuValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y", "true", "gpu", "nvenc":
		*g.p = GPUOn
	case "off", "no", "n", "false", "cpu":
		*g.p = GPUOff
	default:
		return fmt.Errorf("invalid gpu value %q (use 'on' or 'off')", s)
	}
	return nil
}

type collisionValue struct{ p *CollisionPolicy }

func (c *collisionValue) String() string { return string(*c.p) }
func (c *collisionValue) Type() string   { return "policy" }
func (c *collisionValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ask":
		*c.p = CollisionAsk
	case "overwrite":
		*c.p = CollisionOverwrite
	case "version":
		*c.p = CollisionVersion
	default:
		return fmt.Errorf("invalid collision policy %q (use 'ask', 'overwrite' or 'version')", s)
	}
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
