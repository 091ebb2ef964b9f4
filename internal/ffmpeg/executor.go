package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/backmassage/shrinkwrap/internal/progress"
)

// tailLines is how many trailing stderr lines ExecResult keeps for
// diagnostics.
const tailLines = 20

// Process is a started encoder. Stderr must be fully read before Wait.
type Process interface {
	Stderr() io.Reader
	Wait() error
}

// Starter launches an encoder process from a complete argument slice
// (binary first). Tests substitute a fake.
type Starter interface {
	Start(ctx context.Context, argv []string) (Process, error)
}

// ExecStarter starts real processes via os/exec. Cancelling ctx kills the
// process.
type ExecStarter struct{}

type execProcess struct {
	cmd    *exec.Cmd
	stderr io.Reader
}

func (p *execProcess) Stderr() io.Reader { return p.stderr }
func (p *execProcess) Wait() error       { return p.cmd.Wait() }

// Start implements Starter.
func (ExecStarter) Start(ctx context.Context, argv []string) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}
	return &execProcess{cmd: cmd, stderr: stderr}, nil
}

// ExecResult holds the outcome of a single encoder invocation.
type ExecResult struct {
	// ExitCode is the process exit status, or -1 when the process never
	// started or was terminated by a signal.
	ExitCode int
	// Tail holds the last stderr lines, oldest first.
	Tail []string
	// Err is nil only when the process exited with status 0.
	Err error
}

// Success reports whether the encoder exited cleanly.
func (r ExecResult) Success() bool { return r.Err == nil && r.ExitCode == 0 }

// Execute starts argv and streams its stderr line by line to onLine (which
// may be nil). Both \r and \n terminate a line so in-place status updates
// arrive as they are written.
func Execute(ctx context.Context, starter Starter, argv []string, onLine func(string)) ExecResult {
	proc, err := starter.Start(ctx, argv)
	if err != nil {
		return ExecResult{ExitCode: -1, Err: err}
	}

	tail := newRing(tailLines)
	sc := bufio.NewScanner(proc.Stderr())
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(progress.ScanLines)
	for sc.Scan() {
		line := sc.Text()
		tail.add(line)
		if onLine != nil {
			onLine(line)
		}
	}
	if sc.Err() != nil {
		// Keep the pipe drained so the encoder cannot block on a full buffer.
		_, _ = io.Copy(io.Discard, proc.Stderr())
	}

	res := ExecResult{Tail: tail.lines()}
	waitErr := proc.Wait()
	switch {
	case waitErr == nil:
		res.ExitCode = 0
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.Err = fmt.Errorf("encoder interrupted: %w", ctx.Err())
	default:
		res.ExitCode = exitCode(waitErr)
		res.Err = waitErr
	}
	return res
}

// exitCode extracts a process exit status from err, or -1.
func exitCode(err error) int {
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

// ring keeps the last n strings added.
type ring struct {
	buf  []string
	next int
	full bool
}

func newRing(n int) *ring { return &ring{buf: make([]string, n)} }

func (r *ring) add(s string) {
	r.buf[r.next] = s
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) lines() []string {
	if !r.full {
		return append([]string(nil), r.buf[:r.next]...)
	}
	out := make([]string, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}
