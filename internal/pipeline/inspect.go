package pipeline

import (
	"context"
	"math"
	"sort"
)

// Outlier classes for InputInfo.Class.
const (
	ClassNormal  = ""
	ClassOutlier = "outlier"
	ClassExtreme = "extreme"
)

// InputInfo is the probed description of one matched input.
type InputInfo struct {
	Path        string
	Size        int64
	Duration    float64 // Seconds; 0 when unknown.
	Codec       string  // Primary video codec, "" for audio-only inputs.
	Resolution  string
	BitrateKbps int64
	// Class flags inputs whose bitrate is far from the rest of the batch.
	Class string
	Err   error // Probe failure; the other fields beyond Path are zero.
}

// BitrateBounds holds the IQR-based thresholds used to classify bitrates.
type BitrateBounds struct {
	Q1, Q3    float64
	OutlierLo float64 // Q1 - 1.5*IQR
	OutlierHi float64 // Q3 + 1.5*IQR
	ExtremeLo float64 // Q1 - 3.0*IQR
	ExtremeHi float64 // Q3 + 3.0*IQR
	Valid     bool
}

// Inspect probes every input and flags bitrate outliers across the set.
// onProbe, when non-nil, is called before each probe with a 1-based index.
// Cancelling ctx returns the inputs inspected so far.
func Inspect(ctx context.Context, p Prober, files []string, onProbe func(i, total int, path string)) ([]InputInfo, BitrateBounds) {
	infos := make([]InputInfo, 0, len(files))
	var rates []float64

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		if onProbe != nil {
			onProbe(i+1, len(files), path)
		}

		in := InputInfo{Path: path}
		info, err := p.Probe(ctx, path)
		if err != nil {
			in.Err = err
			infos = append(infos, in)
			continue
		}
		in.Size = info.Size
		in.Duration = info.Duration
		in.Resolution = info.Resolution()
		in.BitrateKbps = info.BitRate / 1000
		if info.HasVideo() {
			in.Codec = info.Video.Codec
		}
		if in.BitrateKbps > 0 {
			rates = append(rates, float64(in.BitrateKbps))
		}
		infos = append(infos, in)
	}

	bounds := computeBounds(rates)
	for i := range infos {
		if infos[i].Err == nil {
			infos[i].Class = bounds.Classify(float64(infos[i].BitrateKbps))
		}
	}
	return infos, bounds
}

func computeBounds(vals []float64) BitrateBounds {
	if len(vals) < 4 {
		return BitrateBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return BitrateBounds{
		Q1:        q1,
		Q3:        q3,
		OutlierLo: q1 - 1.5*iqr,
		OutlierHi: q3 + 1.5*iqr,
		ExtremeLo: q1 - 3.0*iqr,
		ExtremeHi: q3 + 3.0*iqr,
		Valid:     iqr > 0,
	}
}

// Classify returns ClassNormal, ClassOutlier or ClassExtreme for a value.
func (b BitrateBounds) Classify(v float64) string {
	if !b.Valid || v <= 0 {
		return ClassNormal
	}
	if v < b.ExtremeLo || v > b.ExtremeHi {
		return ClassExtreme
	}
	if v < b.OutlierLo || v > b.OutlierHi {
		return ClassOutlier
	}
	return ClassNormal
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
