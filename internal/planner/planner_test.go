package planner

import (
	"errors"
	"strings"
	"testing"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/preset"
)

// --- Helper builders ---

func cfgWith(presetID int, format string, gpu config.GPUChoice) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Preset = presetID
	cfg.Format = format
	cfg.GPU = gpu
	return &cfg
}

func noWarn(t *testing.T) func(string, ...interface{}) {
	return func(format string, _ ...interface{}) {
		t.Helper()
		t.Errorf("unexpected warning: %s", format)
	}
}

// --- Resolve tests ---

func TestResolve_KnownPreset(t *testing.T) {
	s, err := Resolve(cfgWith(1, "mkv", config.GPUOn), noWarn(t))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.PresetID != 1 {
		t.Errorf("PresetID = %d, want 1", s.PresetID)
	}
	if s.Format != preset.FormatMKV {
		t.Errorf("Format = %q, want mkv", s.Format)
	}
	if !s.UseGPU {
		t.Error("UseGPU should be true")
	}
	if s.Threads != 4 {
		t.Errorf("Threads = %d, want 4", s.Threads)
	}
}

func TestResolve_UnknownPresetFallsBack(t *testing.T) {
	var warnings []string
	s, err := Resolve(cfgWith(0, "mp4", config.GPUOff), func(format string, _ ...interface{}) {
		warnings = append(warnings, format)
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.PresetID != preset.BalancedID {
		t.Errorf("PresetID = %d, want Balanced", s.PresetID)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
}

func TestResolve_FormatErrors(t *testing.T) {
	if _, err := Resolve(cfgWith(3, "", config.GPUOff), nil); !errors.Is(err, ErrNoFormat) {
		t.Errorf("empty format: got %v, want ErrNoFormat", err)
	}
	if _, err := Resolve(cfgWith(3, "gif", config.GPUOff), nil); err == nil {
		t.Error("unknown format should fail")
	}
}

// --- Job tests ---

func TestJob_Video(t *testing.T) {
	s, _ := Resolve(cfgWith(3, "mp4", config.GPUOff), nil)
	job := s.Job("/in/a.mov", "/out/a.mp4")

	if !job.IsVideo() {
		t.Fatalf("Kind = %v, want video", job.Kind)
	}
	if job.Audio != nil {
		t.Errorf("Balanced preset should not set audio, got %+v", job.Audio)
	}
	if job.UseGPU {
		t.Error("UseGPU should be false")
	}
	if _, ok := job.Params.Rate.(preset.VBR); !ok {
		t.Errorf("Rate = %T, want VBR", job.Params.Rate)
	}
}

func TestJob_VideoPlatformAudioOverride(t *testing.T) {
	s, _ := Resolve(cfgWith(14, "mkv", config.GPUOn), nil)
	job := s.Job("/in/clip.mkv", "/out/clip.mkv")

	if job.Audio == nil || job.Audio.Codec != "aac" || job.Audio.Bitrate != "160k" {
		t.Errorf("Audio = %+v, want aac@160k", job.Audio)
	}
}

func TestJob_Audio(t *testing.T) {
	s, _ := Resolve(cfgWith(7, "opus", config.GPUOn), nil)
	job := s.Job("/in/song.wav", "/out/song.opus")

	if job.Kind != preset.KindAudio {
		t.Fatalf("Kind = %v, want audio", job.Kind)
	}
	if job.Audio == nil || job.Audio.Codec != "libopus" {
		t.Errorf("Audio = %+v, want libopus default", job.Audio)
	}
	if !strings.HasSuffix(job.OutputPath, ".opus") {
		t.Errorf("OutputPath = %q", job.OutputPath)
	}
}

func TestJob_DoesNotShareAudioWithSettings(t *testing.T) {
	s, _ := Resolve(cfgWith(8, "mp4", config.GPUOff), nil)
	a := s.Job("/in/a.mp4", "/out/a.mp4")
	a.Audio.Bitrate = "1k"

	b := s.Job("/in/b.mp4", "/out/b.mp4")
	if b.Audio.Bitrate != "128k" {
		t.Errorf("second job audio bitrate = %q, want 128k", b.Audio.Bitrate)
	}
}
