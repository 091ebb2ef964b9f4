package preset

import (
	"fmt"
	"strings"
)

// Format is an output container (video) or audio codec target. It doubles
// as the output file extension.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatMKV  Format = "mkv"
	FormatMOV  Format = "mov"
	FormatAVI  Format = "avi"
	FormatFLV  Format = "flv"
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatWAV  Format = "wav"
	FormatOGG  Format = "ogg"
	FormatAAC  Format = "aac"
	FormatM4A  Format = "m4a"
	FormatOPUS Format = "opus"
	FormatWMA  Format = "wma"
)

// Kind is the media kind a job produces.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// formats is the menu order (1-13).
var formats = []Format{
	FormatMP4, FormatMKV, FormatMOV, FormatAVI, FormatFLV,
	FormatMP3, FormatFLAC, FormatWAV, FormatOGG, FormatAAC, FormatM4A, FormatOPUS, FormatWMA,
}

// Formats returns every supported format in menu order.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// FormatByNumber returns the format at 1-based menu position n.
func FormatByNumber(n int) (Format, bool) {
	if n < 1 || n > len(formats) {
		return "", false
	}
	return formats[n-1], true
}

// ParseFormat accepts a format name, case-insensitively and with or without
// a leading dot.
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	for _, f := range formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Kind reports whether f produces a video or an audio file.
func (f Format) Kind() Kind {
	switch f {
	case FormatMP4, FormatMKV, FormatMOV, FormatAVI, FormatFLV:
		return KindVideo
	case FormatMP3, FormatFLAC, FormatWAV, FormatOGG, FormatAAC, FormatM4A, FormatOPUS, FormatWMA:
		return KindAudio
	default:
		return KindUnknown
	}
}

// AudioProfile is the codec and bitrate for an audio stream.
type AudioProfile struct {
	Codec   string
	Bitrate string
}

// defaultAudioBitrate is applied to every default profile, including the
// lossless codecs where the encoder ignores it.
const defaultAudioBitrate = "48000"

var audioProfiles = map[Format]AudioProfile{
	FormatMP3:  {Codec: "libmp3lame", Bitrate: defaultAudioBitrate},
	FormatFLAC: {Codec: "flac", Bitrate: defaultAudioBitrate},
	FormatWAV:  {Codec: "pcm_s16le", Bitrate: defaultAudioBitrate},
	FormatOGG:  {Codec: "libvorbis", Bitrate: defaultAudioBitrate},
	FormatAAC:  {Codec: "aac", Bitrate: defaultAudioBitrate},
	FormatM4A:  {Codec: "aac", Bitrate: defaultAudioBitrate},
	FormatOPUS: {Codec: "libopus", Bitrate: defaultAudioBitrate},
	FormatWMA:  {Codec: "wmav2", Bitrate: defaultAudioBitrate},
}

// AudioProfileFor returns the default audio profile for an audio format
// name. Anything not in the audio table, video formats included, gets the
// mp3 profile.
func AudioProfileFor(format string) AudioProfile {
	if p, ok := audioProfiles[Format(format)]; ok {
		return p
	}
	return audioProfiles[FormatMP3]
}
