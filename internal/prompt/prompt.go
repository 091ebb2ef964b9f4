// Package prompt asks the user for batch selections that were not given as
// flags or config keys: the input extension, preset, output format, GPU
// use, the final confirmation, and what to do with existing outputs.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/backmassage/shrinkwrap/internal/naming"
	"github.com/backmassage/shrinkwrap/internal/preset"
	"github.com/backmassage/shrinkwrap/internal/term"
)

var (
	// ErrNotInteractive is returned when a value must be asked for but
	// stdin is not a terminal.
	ErrNotInteractive = errors.New("input is not a terminal; pass the value as a flag or config key")
	// ErrNoAnswer is returned when input ends before a valid answer.
	ErrNoAnswer = errors.New("no answer (end of input)")
)

// Prompter reads answers line by line from in and writes questions to out.
//
// Every question takes a context: cancelling it abandons the question with
// ctx.Err() even while a read is pending. A line that arrives after that is
// kept for the next question.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool

	start sync.Once
	lines chan answer
}

type answer struct {
	line string
	err  error
}

// New returns a Prompter. When interactive is false every question fails
// with ErrNotInteractive instead of blocking on input.
func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
		lines:       make(chan answer, 1),
	}
}

// Stdio returns a Prompter on stdin/stdout, interactive when stdin is a
// terminal.
func Stdio() *Prompter {
	return New(os.Stdin, os.Stdout, term.IsTerminal(os.Stdin))
}

// readLines feeds p.lines until the first read error, then closes it.
func (p *Prompter) readLines() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- answer{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// ask prints question and returns the trimmed answer line.
func (p *Prompter) ask(ctx context.Context, question string) (string, error) {
	if !p.interactive {
		return "", ErrNotInteractive
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, term.Paint(term.Cyan, question))
	p.start.Do(func() { go p.readLines() })

	var a answer
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case got, ok := <-p.lines:
		if !ok {
			return "", ErrNoAnswer
		}
		a = got
	}
	if a.err != nil && (a.err != io.EOF || a.line == "") {
		if a.err == io.EOF {
			return "", ErrNoAnswer
		}
		return "", fmt.Errorf("read answer: %w", a.err)
	}
	return strings.TrimSpace(a.line), nil
}

func (p *Prompter) invalid(format string, args ...interface{}) {
	fmt.Fprintln(p.out, term.Paint(term.Red, fmt.Sprintf(format, args...)))
}

// Extension asks for the extension of the files to convert and returns it
// with a leading dot.
func (p *Prompter) Extension(ctx context.Context) (string, error) {
	for {
		ans, err := p.ask(ctx, "File extension of the files to compress (e.g. mp4 or mp3): ")
		if err != nil {
			return "", err
		}
		if ext := strings.TrimPrefix(ans, "."); ext != "" {
			return "." + ext, nil
		}
		p.invalid("Please enter an extension.")
	}
}

// Preset shows menu and asks for a preset number until one in range is
// given.
func (p *Prompter) Preset(ctx context.Context, menu string) (preset.ID, error) {
	if p.interactive && menu != "" {
		fmt.Fprintln(p.out, menu)
	}
	for {
		ans, err := p.ask(ctx, fmt.Sprintf("Compression preset (1-%d): ", preset.Count))
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(ans)
		if convErr == nil && preset.ID(n).Valid() {
			return preset.ID(n), nil
		}
		p.invalid("Invalid selection. Enter a number between 1 and %d.", preset.Count)
	}
}

// Format shows menu and asks for an output format by number or name.
func (p *Prompter) Format(ctx context.Context, menu string) (preset.Format, error) {
	if p.interactive && menu != "" {
		fmt.Fprintln(p.out, menu)
	}
	n := len(preset.Formats())
	for {
		ans, err := p.ask(ctx, fmt.Sprintf("Output format (1-%d): ", n))
		if err != nil {
			return "", err
		}
		if i, convErr := strconv.Atoi(ans); convErr == nil {
			if f, ok := preset.FormatByNumber(i); ok {
				return f, nil
			}
		} else if f, parseErr := preset.ParseFormat(ans); parseErr == nil {
			return f, nil
		}
		p.invalid("Invalid selection. Enter a number between 1 and %d.", n)
	}
}

// YesNo asks a Y/N question. Only "y" or "yes" (any case) count as yes.
func (p *Prompter) YesNo(ctx context.Context, question string) (bool, error) {
	ans, err := p.ask(ctx, question+" (Y/N): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// GPU asks whether video jobs should use the NVENC encoder.
func (p *Prompter) GPU(ctx context.Context) (bool, error) {
	return p.YesNo(ctx, "Use the GPU (NVENC) for video encoding?")
}

// Collision asks what to do with an existing output file. It has the
// naming.ChoiceFunc signature.
func (p *Prompter) Collision(ctx context.Context, existing string) (naming.Choice, error) {
	if !p.interactive {
		return 0, ErrNotInteractive
	}
	fmt.Fprintln(p.out, term.Paint(term.Yellow, fmt.Sprintf("File %q already exists.", existing)))
	for {
		ans, err := p.ask(ctx, "  (Y) Overwrite  (N) Create a new version: ")
		if err != nil {
			return 0, err
		}
		switch strings.ToLower(ans) {
		case "y", "yes", "o", "overwrite":
			return naming.Overwrite, nil
		case "n", "no", "v", "version":
			return naming.Version, nil
		}
		p.invalid("Please enter 'y' or 'n'.")
	}
}
