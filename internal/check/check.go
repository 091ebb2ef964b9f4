// Package check provides system diagnostics (the check command) and
// pre-batch dependency validation (CheckDeps) for ffmpeg, ffprobe, NVENC,
// x264, and the audio encoders.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/ffmpeg"
	"github.com/backmassage/shrinkwrap/internal/planner"
	"github.com/backmassage/shrinkwrap/internal/preset"
)

// Sentinel errors returned by CheckDeps and CheckProber.
var (
	ErrFFmpegNotFound   = errors.New("ffmpeg not found")
	ErrFFprobeNotFound  = errors.New("ffprobe not found")
	ErrEncoderMissing   = errors.New("encoder not available in this ffmpeg build")
	ErrNVENCTestFailed  = errors.New("h264_nvenc test encode failed (encoder listed but no usable GPU)")
	ErrEncoderListFails = errors.New("could not list ffmpeg encoders")
)

// Hooks for tests.
var (
	lookPath = exec.LookPath
	output   = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).Output()
	}
	runSilent = func(ctx context.Context, name string, args ...string) bool {
		return exec.CommandContext(ctx, name, args...).Run() == nil
	}
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive check flow: prints availability of ffmpeg,
// ffprobe, the video encoders, an NVENC test encode, and every audio
// encoder the format table uses. This is informational only; it does not
// stop on failure. It returns false when anything required for the default
// CPU path is missing.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	ok := true

	if !checkBinary(ctx, log, cfg.FFmpegBin) {
		return false
	}
	if !checkBinary(ctx, log, cfg.FFprobeBin) {
		ok = false
	}

	encoders, err := listEncoders(ctx, cfg.FFmpegBin)
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return false
	}

	log.Info("Video encoders:")
	for _, name := range []string{ffmpeg.GPUCodec, ffmpeg.CPUCodec} {
		if encoders[name] {
			log.Success("  %s", name)
		} else {
			log.Error("  %s missing", name)
			if name == ffmpeg.CPUCodec {
				ok = false
			}
		}
	}

	if encoders[ffmpeg.GPUCodec] {
		log.Info("Testing NVENC...")
		if runSilent(ctx, cfg.FFmpegBin, nvencTestArgs()...) {
			log.Success("NVENC works")
		} else {
			log.Warn("NVENC test encode failed; use --gpu=off")
		}
	}

	log.Info("Audio encoders:")
	for _, name := range audioEncoders() {
		if encoders[name] {
			log.Success("  %s", name)
		} else {
			log.Warn("  %s missing", name)
		}
	}
	return ok
}

// checkBinary verifies a tool is on PATH and logs its version string.
func checkBinary(ctx context.Context, log Logger, bin string) bool {
	if _, err := lookPath(bin); err != nil {
		log.Error("%s not found", bin)
		return false
	}
	out, err := output(ctx, bin, "-version")
	if err != nil {
		log.Warn("%s found but -version failed: %v", bin, err)
		return true
	}
	log.Success("%s", firstLine(string(out)))
	return true
}

// RequiredEncoders returns the ffmpeg encoders a batch with settings s
// needs.
func RequiredEncoders(s planner.Settings) []string {
	if s.Format.Kind() == preset.KindAudio {
		return []string{preset.AudioProfileFor(string(s.Format)).Codec}
	}
	enc := []string{ffmpeg.CPUCodec}
	if s.UseGPU {
		enc[0] = ffmpeg.GPUCodec
	}
	if a := s.Params.Audio; a != nil {
		enc = append(enc, a.Codec)
	}
	return enc
}

// CheckDeps is the pre-batch validation: it verifies that ffmpeg is on PATH
// and that every encoder the batch needs is compiled in. In GPU mode a short
// NVENC encode is also run. Returns a sentinel error on failure.
//
// ffprobe is not required here; see [CheckProber].
func CheckDeps(ctx context.Context, cfg *config.Config, s planner.Settings) error {
	if _, err := lookPath(cfg.FFmpegBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, cfg.FFmpegBin)
	}

	encoders, err := listEncoders(ctx, cfg.FFmpegBin)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoderListFails, err)
	}
	for _, name := range RequiredEncoders(s) {
		if !encoders[name] {
			return fmt.Errorf("%w: %s", ErrEncoderMissing, name)
		}
	}

	if s.UseGPU && s.Format.Kind() == preset.KindVideo {
		if !runSilent(ctx, cfg.FFmpegBin, nvencTestArgs()...) {
			return ErrNVENCTestFailed
		}
	}
	return nil
}

// CheckProber reports whether ffprobe is on PATH. A missing prober only
// costs the progress percentage, so callers warn rather than abort.
func CheckProber(cfg *config.Config) error {
	if _, err := lookPath(cfg.FFprobeBin); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, cfg.FFprobeBin)
	}
	return nil
}

// --- internal helpers ---

func listEncoders(ctx context.Context, bin string) (map[string]bool, error) {
	out, err := output(ctx, bin, "-hide_banner", "-encoders")
	if err != nil {
		return nil, err
	}
	return parseEncoders(string(out)), nil
}

// parseEncoders extracts encoder names from `ffmpeg -encoders` output:
//
//	V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC ...
//
// Lines before the "------" separator are the legend.
func parseEncoders(out string) map[string]bool {
	names := make(map[string]bool)
	inList := false
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !inList {
			inList = strings.HasPrefix(fields[0], "---")
			continue
		}
		if len(fields) >= 2 && len(fields[0]) == 6 {
			names[fields[1]] = true
		}
	}
	return names
}

// audioEncoders returns the distinct codecs of the audio format table.
func audioEncoders() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range preset.Formats() {
		if f.Kind() != preset.KindAudio {
			continue
		}
		c := preset.AudioProfileFor(string(f)).Codec
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// nvencTestArgs returns the ffmpeg arguments for a minimal h264_nvenc encode.
func nvencTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", ffmpeg.GPUCodec,
		"-f", "null", "-",
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}
