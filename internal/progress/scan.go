package progress

// ScanLines is a bufio.SplitFunc for encoder stderr. ffmpeg rewrites its
// status line with a bare carriage return, so both \r and \n end a token.
// Runs of line terminators produce no empty tokens.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isEOL(data[start]) {
		start++
	}
	if atEOF && start == len(data) {
		return len(data), nil, nil
	}

	for i := start; i < len(data); i++ {
		if isEOL(data[i]) {
			return i + 1, data[start:i], nil
		}
	}

	if atEOF {
		return len(data), data[start:], nil
	}
	// Request more data, dropping the terminators already skipped.
	return start, nil, nil
}

func isEOL(b byte) bool { return b == '\r' || b == '\n' }
