package probe

import "strconv"

// Info is the parsed output of a single ffprobe JSON call.
type Info struct {
	Filename   string
	FormatName string
	Duration   float64 // Seconds; 0 when ffprobe reported none.
	Size       int64   // Bytes.
	BitRate    int64   // Bits per second.

	// Video is the first video stream that is not attached cover art, or
	// nil for audio-only inputs.
	Video       *VideoStream
	AudioCount  int
	StreamCount int
}

// VideoStream holds the properties of the primary video stream.
type VideoStream struct {
	Index  int
	Codec  string
	Width  int
	Height int
}

// HasVideo reports whether the input carries a real video stream.
func (i *Info) HasVideo() bool { return i.Video != nil }

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (i *Info) Resolution() string {
	if i.Video == nil || i.Video.Width <= 0 || i.Video.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(i.Video.Width) + "x" + strconv.Itoa(i.Video.Height)
}
