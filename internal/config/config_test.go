package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "mp4", ".mp4"},
		{"dotted", ".mp3", ".mp3"},
		{"whitespace", "  mkv ", ".mkv"},
		{"case kept", "MOV", ".MOV"},
		{"empty stays empty", "", ""},
		{"blank stays empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeExtension(tt.in); got != tt.want {
				t.Errorf("NormalizeExtension(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if got := cfg.OutputDir(); got != "compressed_files" {
		t.Errorf("OutputDir() = %q, want compressed_files", got)
	}
	if cfg.UseGPU() {
		t.Error("UseGPU() = true for unanswered gpu choice")
	}
}

func TestValidate_GPU(t *testing.T) {
	tests := []struct {
		name    string
		gpu     GPUChoice
		wantErr bool
	}{
		{"ask is valid", GPUAsk, false},
		{"on is valid", GPUOn, false},
		{"off is valid", GPUOff, false},
		{"unknown is invalid", "vaapi", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.GPU = tt.gpu
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Collision(t *testing.T) {
	tests := []struct {
		name    string
		policy  CollisionPolicy
		wantErr bool
	}{
		{"ask is valid", CollisionAsk, false},
		{"overwrite is valid", CollisionOverwrite, false},
		{"version is valid", CollisionVersion, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "skip", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Collision = tt.policy
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ColorMode = "rainbow"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted an unknown color mode")
	}
}

func TestValidate_Format(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    string
		wantErr bool
	}{
		{"unset", "", "", false},
		{"lowercase", "mkv", "mkv", false},
		{"normalized", ".FLAC", "flac", false},
		{"unsupported", "webm", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Format = tt.format
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.Format != tt.want {
				t.Errorf("Format = %q, want %q", cfg.Format, tt.want)
			}
		})
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"negative preset", func(c *Config) { c.Preset = -1 }, true},
		{"preset above catalog", func(c *Config) { c.Preset = 42 }, false},
		{"zero threads", func(c *Config) { c.Threads = 0 }, true},
		{"nested output subdir", func(c *Config) { c.OutputSubdir = "a/b" }, true},
		{"parent output subdir", func(c *Config) { c.OutputSubdir = ".." }, true},
		{"blank output subdir", func(c *Config) { c.OutputSubdir = " " }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extension = "mp4"
	cfg.WorkDir = "  "
	cfg.OutputSubdir = " out "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Extension != ".mp4" || cfg.WorkDir != "." || cfg.OutputSubdir != "out" {
		t.Errorf("got ext=%q dir=%q sub=%q", cfg.Extension, cfg.WorkDir, cfg.OutputSubdir)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sw.toml", `
extension = "mov"
preset = 7
format = "mp4"
gpu = "off"
collision = "version"
threads = 8
`)
	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used == "" {
		t.Error("Load returned no source path")
	}
	if cfg.Extension != "mov" || cfg.Preset != 7 || cfg.Format != "mp4" {
		t.Errorf("selections = %q %d %q", cfg.Extension, cfg.Preset, cfg.Format)
	}
	if cfg.GPU != GPUOff || cfg.Collision != CollisionVersion || cfg.Threads != 8 {
		t.Errorf("gpu=%q collision=%q threads=%d", cfg.GPU, cfg.Collision, cfg.Threads)
	}
	// Fields absent from the file keep their defaults.
	if cfg.FFmpegBin != "ffmpeg" || !cfg.ShowProgress {
		t.Errorf("defaults lost: ffmpeg=%q progress=%v", cfg.FFmpegBin, cfg.ShowProgress)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sw.toml", "prest = 3\n")
	_, _, err := Load(path)
	if err == nil {
		t.Fatal("Load accepted an unknown field")
	}
	if !strings.Contains(err.Error(), "prest") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load of a missing explicit path succeeded")
	}

	// Without a path, an absent ./shrinkwrap.toml is not an error.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, used, err := Load("")
	if err != nil || used != "" {
		t.Fatalf("Load(\"\") = %q, %v", used, err)
	}
	if cfg.Threads != DefaultConfig().Threads {
		t.Errorf("Threads = %d, want default", cfg.Threads)
	}
}

func TestOverrides_ApplyOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var o Overrides
	BindFlags(fs, &o)
	if err := fs.Parse([]string{"-e", "mp3", "--gpu", "on", "--no-progress", "-C", "/media"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Threads = 12 // from a config file
	cfg.Format = "flac"
	o.Apply(fs, &cfg)

	if cfg.Extension != "mp3" || cfg.GPU != GPUOn || cfg.ShowProgress || cfg.WorkDir != "/media" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Threads != 12 || cfg.Format != "flac" {
		t.Errorf("unset flags overrode file values: threads=%d format=%q", cfg.Threads, cfg.Format)
	}
}

func TestOverrides_EnumFlags(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"--gpu", "cpu"}, false},
		{[]string{"--gpu", "maybe"}, true},
		{[]string{"--collision", "overwrite"}, false},
		{[]string{"--collision", "skip"}, true},
		{[]string{"--color", "never"}, false},
		{[]string{"--color", "rainbow"}, true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.SetOutput(new(strings.Builder))
			var o Overrides
			BindFlags(fs, &o)
			err := fs.Parse(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}
