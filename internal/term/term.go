// Package term holds the process-wide ANSI color state and terminal
// detection shared by logging, display, and prompt.
//
// The color variables are empty strings until [Configure] enables them, so
// concatenating them into output is always safe.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/shrinkwrap/internal/config"
)

// ANSI sequences. Empty when colors are disabled.
var (
	Red     string
	Green   string
	Yellow  string
	Orange  string
	Blue    string
	Cyan    string
	Magenta string
	NC      string // Reset.
)

var palette = []struct {
	v    *string
	code string
}{
	{&Red, "\033[1;91m"},
	{&Green, "\033[1;92m"},
	{&Yellow, "\033[1;93m"},
	{&Orange, "\033[1;38;5;208m"},
	{&Blue, "\033[1;94m"},
	{&Cyan, "\033[1;96m"},
	{&Magenta, "\033[1;95m"},
	{&NC, "\033[0m"},
}

// Configure turns colors on or off for mode. [logging.NewLogger] calls it
// once at startup.
func Configure(mode config.ColorMode) {
	on := wantColor(mode)
	for _, p := range palette {
		*p.v = ""
		if on {
			*p.v = p.code
		}
	}
}

// Enabled reports whether colors are on.
func Enabled() bool { return NC != "" }

// Paint wraps s in color and a reset. With colors off it returns s.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + NC
}

// wantColor applies the mode. Auto needs a terminal on stdout, no NO_COLOR
// (https://no-color.org), and a TERM other than "dumb".
func wantColor(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(os.Stdout)
}

// IsTerminal reports whether f is a terminal, Cygwin and MSYS ptys
// included. A nil file is not.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
