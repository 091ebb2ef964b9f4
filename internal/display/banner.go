package display

import (
	"fmt"
	"io"

	"github.com/backmassage/shrinkwrap/internal/term"
)

const banner = `     _          _       _
 ___| |__  _ __(_)_ __ | | ____      ___ __ __ _ _ __
/ __| '_ \| '__| | '_ \| |/ /\ \ /\ / / '__/ _` + "`" + ` | '_ \
\__ \ | | | |  | | | | |   <  \ V  V /| | | (_| | |_) |
|___/_| |_|_|  |_|_| |_|_|\_\  \_/\_/ |_|  \__,_| .__/
                                                |_|
`

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, banner)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
