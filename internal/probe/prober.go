package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnknownDuration is wrapped by Duration when the input's length cannot
// be determined.
var ErrUnknownDuration = errors.New("duration unknown")

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands via os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Prober inspects media files with ffprobe. The zero value runs "ffprobe"
// from PATH.
type Prober struct {
	Bin string
	Run Runner
}

// New returns a Prober for the given binary.
func New(bin string) *Prober {
	return &Prober{Bin: bin, Run: ExecRunner}
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed result.
func (p *Prober) Probe(ctx context.Context, path string) (*Info, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseJSON(out)
}

// Duration returns the container duration of path in seconds. It asks
// ffprobe for format=duration alone and reads stdout as one float. Any
// failure, including "N/A", empty output, or a non-positive value, wraps
// ErrUnknownDuration.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	out, err := p.run(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %q: %w", ErrUnknownDuration, path, err)
	}
	s := strings.TrimSpace(string(out))
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: %q reports duration %q", ErrUnknownDuration, path, s)
	}
	return d, nil
}

func (p *Prober) run(ctx context.Context, args ...string) ([]byte, error) {
	bin := p.Bin
	if bin == "" {
		bin = "ffprobe"
	}
	run := p.Run
	if run == nil {
		run = ExecRunner
	}
	return run(ctx, bin, args...)
}

// ParseJSON converts raw ffprobe JSON output into an Info.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Info, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	NbStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index       int            `json:"index"`
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Disposition map[string]int `json:"disposition"`
}

func buildInfo(raw *ffprobeOutput) *Info {
	info := &Info{
		Filename:    raw.Format.Filename,
		FormatName:  raw.Format.FormatName,
		Duration:    parseFloat(raw.Format.Duration),
		Size:        parseInt64(raw.Format.Size),
		BitRate:     parseInt64(raw.Format.BitRate),
		StreamCount: raw.Format.NbStreams,
	}
	if info.StreamCount == 0 {
		info.StreamCount = len(raw.Streams)
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if s.Disposition["attached_pic"] == 1 || info.Video != nil {
				continue
			}
			info.Video = &VideoStream{
				Index:  s.Index,
				Codec:  s.CodecName,
				Width:  s.Width,
				Height: s.Height,
			}
		case "audio":
			info.AudioCount++
		}
	}
	return info
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

// parseFloat returns 0 for empty, "N/A" or otherwise unparseable values.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
