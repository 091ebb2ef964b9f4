package progress

import (
	"strconv"
	"strings"
)

const timeMarker = "time="

// spikeTolerance is how far past the total an elapsed value may go before it
// is counted as a spike. Container durations and stream timestamps rarely
// agree exactly, so small overshoots are normal.
const spikeTolerance = 0.05

// State is a snapshot of a Parser.
type State struct {
	Elapsed    float64 // Last parsed elapsed time in seconds.
	Total      float64 // Total duration in seconds; meaningful only if HasTotal.
	HasTotal   bool
	Percent    float64 // Highest percentage seen; meaningful only if HasTotal.
	Updates    int     // Number of lines that carried a valid timestamp.
	Spikes     int     // Elapsed values past Total by more than the tolerance.
	LastSpiked bool    // Whether the most recent update was a spike.
}

// Tier returns the status tier of the current percentage. ok is false when
// the total duration is unknown.
func (s State) Tier() (Tier, bool) {
	if !s.HasTotal {
		return 0, false
	}
	return TierOf(s.Percent), true
}

// Parser turns encoder status lines into elapsed time and a completion
// percentage. It is owned by a single job and is not safe for concurrent use.
type Parser struct {
	st State
}

// NewParser returns a parser for a job of total seconds. A total that is not
// positive means the duration is unknown and no percentage is computed.
func NewParser(total float64) *Parser {
	p := &Parser{}
	if total > 0 {
		p.st.Total = total
		p.st.HasTotal = true
	}
	return p
}

// Feed consumes one line of encoder output. It returns true when the line
// carried a valid timestamp and the state was updated; lines without a
// marker or with a malformed timestamp leave the state untouched.
func (p *Parser) Feed(line string) bool {
	raw, ok := ExtractTimestamp(line)
	if !ok {
		return false
	}
	elapsed, ok := ParseTimestamp(raw)
	if !ok {
		return false
	}

	p.st.Elapsed = elapsed
	p.st.Updates++
	p.st.LastSpiked = false

	if p.st.HasTotal {
		if elapsed > p.st.Total*(1+spikeTolerance) {
			p.st.Spikes++
			p.st.LastSpiked = true
		}
		if pct := Percent(elapsed, p.st.Total); pct > p.st.Percent {
			p.st.Percent = pct
		}
	}
	return true
}

// State returns a copy of the current state.
func (p *Parser) State() State { return p.st }

// Percent returns elapsed/total*100 clamped to [0, 100]. A non-positive
// total yields 0.
func Percent(elapsed, total float64) float64 {
	if total <= 0 {
		return 0
	}
	pct := elapsed / total * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// ExtractTimestamp returns the value of the last "time=" field in line: the
// text after the marker up to the next whitespace.
func ExtractTimestamp(line string) (string, bool) {
	idx := strings.LastIndex(line, timeMarker)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimLeft(line[idx+len(timeMarker):], " ")
	if end := strings.IndexAny(rest, " \t\r\n"); end >= 0 {
		rest = rest[:end]
	}
	return rest, rest != ""
}

// ParseTimestamp parses "HH:MM:SS[.frac]" or "MM:SS[.frac]" into seconds.
// Signs, empty fields, N/A and any other shape are rejected.
func ParseTimestamp(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	secStr := parts[len(parts)-1]
	if !isDecimal(secStr) {
		return 0, false
	}
	secs, err := strconv.ParseFloat(secStr, 64)
	if err != nil || secs >= 60 {
		return 0, false
	}

	mins, ok := parseUint(parts[len(parts)-2])
	if !ok {
		return 0, false
	}

	if len(parts) == 2 {
		return float64(mins)*60 + secs, true
	}

	if mins >= 60 {
		return 0, false
	}
	hours, ok := parseUint(parts[0])
	if !ok {
		return 0, false
	}
	return float64(hours)*3600 + float64(mins)*60 + secs, true
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// isDecimal accepts digits with at most one interior or trailing dot.
func isDecimal(s string) bool {
	if s == "" || s[0] == '.' {
		return false
	}
	dot := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			if dot {
				return false
			}
			dot = true
		case c < '0' || c > '9':
			return false
		}
	}
	return true
}
