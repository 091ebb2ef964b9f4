package progress

// Tier buckets a completion percentage for the status indicator.
type Tier int

const (
	TierLow  Tier = iota // [0, 25)
	TierMid              // [25, 50)
	TierHigh             // [50, 100]
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	default:
		return "high"
	}
}

// TierOf maps a percentage to its tier. Lower bounds are inclusive.
func TierOf(pct float64) Tier {
	switch {
	case pct < 25:
		return TierLow
	case pct < 50:
		return TierMid
	default:
		return TierHigh
	}
}
