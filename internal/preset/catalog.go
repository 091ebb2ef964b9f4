package preset

import "fmt"

// ID selects one of the numbered compression presets (1-16).
type ID int

// Count is the number of presets in the catalog.
const Count = 16

// Well-known ids.
const (
	BalancedID ID = 3
	LosslessID ID = 16
)

// RateControl is the rate-control half of [EncodeParams]. It is sealed: the
// only implementations are [VBR] and [Lossless], so a lossless preset cannot
// carry bitrate fields and a VBR preset always carries all four.
type RateControl interface {
	// Mode is the NVENC -rc value.
	Mode() string
	rateControl()
}

// VBR is constant-quality variable bitrate. All four fields are emitted
// together.
type VBR struct {
	Quality int    // NVENC -cq, x264 -crf.
	Bitrate string // -b:v
	MaxRate string // -maxrate
	BufSize string // -bufsize
}

func (VBR) Mode() string { return "vbr" }
func (VBR) rateControl() {}

// Lossless is constant QP 0.
type Lossless struct{}

func (Lossless) Mode() string { return "constqp" }
func (Lossless) rateControl() {}

// EncodeParams is the encoder parameter set a preset resolves to.
type EncodeParams struct {
	Speed string      // NVENC preset name, p1 (fastest) to p7 (slowest).
	Rate  RateControl // Never nil for catalog entries.

	// Audio overrides the audio track encoding of video jobs. Nil keeps the
	// encoder's default audio handling.
	Audio *AudioProfile
}

// Preset is one catalog entry.
type Preset struct {
	ID     ID
	Name   string
	Params EncodeParams
}

func vbr(speed string, q int, bv, maxrate, bufsize string) EncodeParams {
	return EncodeParams{Speed: speed, Rate: VBR{Quality: q, Bitrate: bv, MaxRate: maxrate, BufSize: bufsize}}
}

func withAudio(p EncodeParams, codec, bitrate string) EncodeParams {
	p.Audio = &AudioProfile{Codec: codec, Bitrate: bitrate}
	return p
}

// catalog is indexed by ID-1.
var catalog = [Count]Preset{
	{1, "Ultra High Quality", vbr("p1", 10, "15M", "20M", "30M")},
	{2, "High Quality", vbr("p2", 15, "10M", "15M", "20M")},
	{3, "Balanced (Recommended)", vbr("p4", 23, "5M", "7M", "10M")},
	{4, "Fast Encoding", vbr("p6", 28, "4M", "6M", "8M")},
	{5, "Ultra Fast Encoding", vbr("p7", 35, "3M", "5M", "7M")},
	{6, "Low Quality", vbr("p7", 40, "2M", "3M", "5M")},
	{7, "YouTube", withAudio(vbr("p4", 23, "8M", "12M", "18M"), "aac", "384k")},
	{8, "Facebook", withAudio(vbr("p4", 23, "4M", "5M", "6M"), "aac", "128k")},
	{9, "Instagram", withAudio(vbr("p4", 23, "3.5M", "5M", "6M"), "aac", "128k")},
	{10, "Twitter", withAudio(vbr("p4", 23, "6M", "8M", "10M"), "aac", "128k")},
	{11, "TikTok", withAudio(vbr("p4", 23, "5M", "8M", "10M"), "aac", "128k")},
	{12, "LinkedIn", withAudio(vbr("p4", 23, "4M", "6M", "8M"), "aac", "128k")},
	{13, "Snapchat", withAudio(vbr("p4", 23, "2.5M", "4M", "6M"), "aac", "128k")},
	{14, "Twitch Clip", withAudio(vbr("p4", 23, "6M", "10M", "12M"), "aac", "160k")},
	{15, "Medal.tv Clip", withAudio(vbr("p4", 23, "5M", "10M", "15M"), "aac", "128k")},
	{16, "Lossless", EncodeParams{Speed: "p4", Rate: Lossless{}}},
}

// All returns the catalog in menu order.
func All() []Preset {
	out := make([]Preset, Count)
	copy(out, catalog[:])
	return out
}

// Valid reports whether id names a catalog entry.
func (id ID) Valid() bool { return id >= 1 && id <= Count }

// Lookup returns the preset for id.
func Lookup(id ID) (Preset, bool) {
	if !id.Valid() {
		return Preset{}, false
	}
	p := catalog[id-1]
	if p.Params.Audio != nil {
		a := *p.Params.Audio
		p.Params.Audio = &a
	}
	return p, true
}

// Name returns the display name for id, or "Unknown".
func (id ID) Name() string {
	if p, ok := Lookup(id); ok {
		return p.Name
	}
	return "Unknown"
}

// ParamsFor resolves id to its encoder parameters. It never fails: an
// unknown id resolves to the Balanced preset and warn (if non-nil) is called
// once with an explanation.
func ParamsFor(id ID, warn func(format string, args ...interface{})) EncodeParams {
	if p, ok := Lookup(id); ok {
		return p.Params
	}
	if warn != nil {
		warn("Invalid preset %d, defaulting to %s", int(id), BalancedID.Name())
	}
	p, _ := Lookup(BalancedID)
	return p.Params
}

// String describes the rate-control settings of p for summaries.
func (p EncodeParams) String() string {
	var s string
	switch rc := p.Rate.(type) {
	case VBR:
		s = fmt.Sprintf("%s vbr q=%d b:v=%s maxrate=%s bufsize=%s", p.Speed, rc.Quality, rc.Bitrate, rc.MaxRate, rc.BufSize)
	case Lossless:
		s = fmt.Sprintf("%s constqp qp=0", p.Speed)
	default:
		s = p.Speed
	}
	if p.Audio != nil {
		s += fmt.Sprintf(" audio=%s@%s", p.Audio.Codec, p.Audio.Bitrate)
	}
	return s
}
