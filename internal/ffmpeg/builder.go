package ffmpeg

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/backmassage/shrinkwrap/internal/planner"
	"github.com/backmassage/shrinkwrap/internal/preset"
)

// ErrUnsupportedKind is returned by Build for a job whose kind is neither
// video nor audio.
var ErrUnsupportedKind = errors.New("unsupported media kind")

// Video codec names.
const (
	GPUCodec = "h264_nvenc"
	CPUCodec = "libx264"
)

const pixelFormat = "yuv420p"

// x264Speeds maps the catalog's speed labels onto the x264 ladder by preset
// intent: the catalog gives p1 to its highest-quality preset and p7 to its
// fastest, so p1 is the slowest x264 speed and p7 the fastest.
var x264Speeds = map[string]string{
	"p1": "veryslow",
	"p2": "slower",
	"p3": "slow",
	"p4": "medium",
	"p5": "fast",
	"p6": "faster",
	"p7": "veryfast",
}

// BuildOptions are invocation-wide settings that do not belong to a Job.
type BuildOptions struct {
	Binary  string // Default: "ffmpeg".
	Verbose bool   // -loglevel info instead of error.
}

// Build constructs the complete ffmpeg argument slice (binary first) for a
// job. The kind is the first decision: audio and video jobs share only the
// preamble and the trailing output path.
//
//	ffmpeg <preamble> -i <input> <audio args | video args> <output>
func Build(job *planner.Job, opts BuildOptions) ([]string, error) {
	bin := opts.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	args := make([]string, 0, 40)

	// --- Preamble ---
	args = append(args, bin, "-hide_banner", "-nostdin", "-y")
	if opts.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}
	// Progress lines go to stderr regardless of loglevel.
	args = append(args, "-stats")

	// --- Input ---
	args = append(args, "-i", job.InputPath)

	switch job.Kind {
	case preset.KindAudio:
		args = appendAudioJob(args, job)
	case preset.KindVideo:
		var err error
		if args, err = appendVideoJob(args, job); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s (format %q)", ErrUnsupportedKind, job.Kind, job.Format)
	}

	// --- Output ---
	args = append(args, job.OutputPath)
	return args, nil
}

// appendAudioJob adds the codec arguments for an audio-only output.
func appendAudioJob(args []string, job *planner.Job) []string {
	ap := preset.AudioProfileFor(string(job.Format))
	if job.Audio != nil {
		ap = *job.Audio
	}
	return append(args,
		"-vn",
		"-acodec", ap.Codec,
		"-b:a", ap.Bitrate,
	)
}

// appendVideoJob adds codec, container and rate-control arguments for a
// video output, followed by the preset's audio override if it has one.
func appendVideoJob(args []string, job *planner.Job) ([]string, error) {
	p := job.Params
	if p.Rate == nil {
		return nil, fmt.Errorf("video job %s has no rate control", job.InputPath)
	}

	codec, speed := CPUCodec, x264Speed(p.Speed)
	if job.UseGPU {
		codec, speed = GPUCodec, p.Speed
	}

	threads := job.Threads
	if threads <= 0 {
		threads = 4
	}

	args = append(args,
		"-vcodec", codec,
		"-preset", speed,
		"-pix_fmt", pixelFormat,
		"-movflags", "+faststart",
		"-threads", strconv.Itoa(threads),
	)

	switch rc := p.Rate.(type) {
	case preset.Lossless:
		if job.UseGPU {
			args = append(args, "-rc", rc.Mode())
		}
		args = append(args, "-qp", "0")
	case preset.VBR:
		if job.UseGPU {
			args = append(args, "-rc", rc.Mode(), "-cq", strconv.Itoa(rc.Quality))
		} else {
			args = append(args, "-crf", strconv.Itoa(rc.Quality))
		}
		args = append(args,
			"-b:v", rc.Bitrate,
			"-maxrate", rc.MaxRate,
			"-bufsize", rc.BufSize,
		)
	default:
		return nil, fmt.Errorf("video job %s: unknown rate control %T", job.InputPath, rc)
	}

	if job.Audio != nil {
		args = append(args, "-c:a", job.Audio.Codec, "-b:a", job.Audio.Bitrate)
	}
	return args, nil
}

// x264Speed maps an NVENC preset name to its libx264 counterpart, falling
// back to "medium".
func x264Speed(nvenc string) string {
	if s, ok := x264Speeds[nvenc]; ok {
		return s
	}
	return "medium"
}
