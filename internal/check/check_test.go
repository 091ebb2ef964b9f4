package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/backmassage/shrinkwrap/internal/config"
	"github.com/backmassage/shrinkwrap/internal/planner"
	"github.com/backmassage/shrinkwrap/internal/preset"
)

const encodersOut = ` Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D h264_nvenc           NVIDIA NVENC H.264 encoder (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libmp3lame           libmp3lame MP3 (MPEG audio layer 3) (codec mp3)
 A....D flac                 FLAC (Free Lossless Audio Codec)
`

type fakeTools struct {
	missing  map[string]bool
	encoders string
	listErr  error
	nvencOK  bool
	calls    []string
}

func (f *fakeTools) install(t *testing.T) {
	t.Helper()
	oldLook, oldOut, oldRun := lookPath, output, runSilent
	t.Cleanup(func() { lookPath, output, runSilent = oldLook, oldOut, oldRun })

	lookPath = func(name string) (string, error) {
		if f.missing[name] {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	output = func(_ context.Context, name string, args ...string) ([]byte, error) {
		f.calls = append(f.calls, name+" "+strings.Join(args, " "))
		if len(args) > 0 && args[len(args)-1] == "-encoders" {
			return []byte(f.encoders), f.listErr
		}
		return []byte(name + " version 7.0\nbuilt with gcc\n"), nil
	}
	runSilent = func(context.Context, string, ...string) bool { return f.nvencOK }
}

type logRecorder struct{ lines []string }

func (l *logRecorder) add(level, f string, a ...interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(f, a...))
}
func (l *logRecorder) Info(f string, a ...interface{})    { l.add("INFO", f, a...) }
func (l *logRecorder) Success(f string, a ...interface{}) { l.add("OK", f, a...) }
func (l *logRecorder) Warn(f string, a ...interface{})    { l.add("WARN", f, a...) }
func (l *logRecorder) Error(f string, a ...interface{})   { l.add("ERROR", f, a...) }

func (l *logRecorder) has(sub string) bool {
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

func videoSettings(gpu bool) planner.Settings {
	return planner.Settings{
		PresetID: preset.BalancedID,
		Params:   preset.ParamsFor(preset.BalancedID, nil),
		Format:   preset.FormatMP4,
		UseGPU:   gpu,
	}
}

func TestParseEncoders(t *testing.T) {
	got := parseEncoders(encodersOut)
	for _, name := range []string{"libx264", "h264_nvenc", "aac", "libmp3lame", "flac"} {
		if !got[name] {
			t.Errorf("parseEncoders missing %q", name)
		}
	}
	// Legend lines above the separator are not encoders.
	if got["="] || got["Video"] {
		t.Errorf("parseEncoders picked up legend entries: %v", got)
	}
}

func TestRequiredEncoders(t *testing.T) {
	if got := RequiredEncoders(videoSettings(false)); got[0] != "libx264" {
		t.Errorf("CPU video = %v, want libx264 first", got)
	}
	if got := RequiredEncoders(videoSettings(true)); got[0] != "h264_nvenc" {
		t.Errorf("GPU video = %v, want h264_nvenc first", got)
	}

	yt := videoSettings(true)
	yt.Params = preset.ParamsFor(7, nil)
	if got := RequiredEncoders(yt); len(got) != 2 || got[1] != "aac" {
		t.Errorf("preset 7 = %v, want aac audio encoder", got)
	}

	audio := planner.Settings{Format: preset.FormatFLAC}
	if got := RequiredEncoders(audio); len(got) != 1 || got[0] != "flac" {
		t.Errorf("flac = %v, want [flac]", got)
	}
}

func TestCheckDeps_OK(t *testing.T) {
	f := &fakeTools{encoders: encodersOut, nvencOK: true}
	f.install(t)

	if err := CheckDeps(context.Background(), testConfig(), videoSettings(true)); err != nil {
		t.Fatalf("CheckDeps: %v", err)
	}
}

func TestCheckDeps_MissingBinaries(t *testing.T) {
	cfg := testConfig()

	f := &fakeTools{missing: map[string]bool{cfg.FFmpegBin: true}, encoders: encodersOut}
	f.install(t)
	if err := CheckDeps(context.Background(), cfg, videoSettings(false)); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("err = %v, want ErrFFmpegNotFound", err)
	}

}

func TestCheckDeps_FFprobeOptional(t *testing.T) {
	cfg := testConfig()
	f := &fakeTools{missing: map[string]bool{cfg.FFprobeBin: true}, encoders: encodersOut}
	f.install(t)

	for _, s := range []planner.Settings{videoSettings(false), {Format: preset.FormatMP3}} {
		if err := CheckDeps(context.Background(), cfg, s); err != nil {
			t.Errorf("CheckDeps(%s) with no ffprobe: %v", s.Format, err)
		}
	}
	if err := CheckProber(cfg); !errors.Is(err, ErrFFprobeNotFound) {
		t.Errorf("CheckProber = %v, want ErrFFprobeNotFound", err)
	}

	f.missing = nil
	if err := CheckProber(cfg); err != nil {
		t.Errorf("CheckProber with ffprobe present: %v", err)
	}
}

func TestCheckDeps_MissingEncoder(t *testing.T) {
	f := &fakeTools{encoders: encodersOut}
	f.install(t)

	err := CheckDeps(context.Background(), testConfig(), planner.Settings{Format: preset.FormatOPUS})
	if !errors.Is(err, ErrEncoderMissing) {
		t.Fatalf("err = %v, want ErrEncoderMissing", err)
	}
	if !strings.Contains(err.Error(), "libopus") {
		t.Errorf("err %q does not name libopus", err)
	}
}

func TestCheckDeps_ListFails(t *testing.T) {
	f := &fakeTools{listErr: errors.New("exit status 1")}
	f.install(t)

	err := CheckDeps(context.Background(), testConfig(), videoSettings(false))
	if !errors.Is(err, ErrEncoderListFails) {
		t.Errorf("err = %v, want ErrEncoderListFails", err)
	}
}

func TestCheckDeps_NVENCTestFails(t *testing.T) {
	f := &fakeTools{encoders: encodersOut, nvencOK: false}
	f.install(t)

	if err := CheckDeps(context.Background(), testConfig(), videoSettings(true)); !errors.Is(err, ErrNVENCTestFailed) {
		t.Errorf("GPU: err = %v, want ErrNVENCTestFailed", err)
	}
	// The test encode only matters when the GPU is used.
	if err := CheckDeps(context.Background(), testConfig(), videoSettings(false)); err != nil {
		t.Errorf("CPU: err = %v, want nil", err)
	}
}

func TestRunCheck(t *testing.T) {
	f := &fakeTools{encoders: encodersOut, nvencOK: true}
	f.install(t)
	log := &logRecorder{}

	if !RunCheck(context.Background(), testConfig(), log) {
		t.Errorf("RunCheck = false, want true; log:\n%s", strings.Join(log.lines, "\n"))
	}
	for _, want := range []string{"OK ffmpeg version 7.0", "OK NVENC works", "OK   libx264", "WARN   libopus missing"} {
		if !log.has(want) {
			t.Errorf("log missing %q:\n%s", want, strings.Join(log.lines, "\n"))
		}
	}
}

func TestRunCheck_NoFFmpeg(t *testing.T) {
	cfg := testConfig()
	f := &fakeTools{missing: map[string]bool{cfg.FFmpegBin: true}}
	f.install(t)
	log := &logRecorder{}

	if RunCheck(context.Background(), cfg, log) {
		t.Error("RunCheck = true without ffmpeg")
	}
	if !log.has("ERROR " + cfg.FFmpegBin + " not found") {
		t.Errorf("log = %v", log.lines)
	}
}
