package naming

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
)

// MaxVersions bounds the versioned-name search.
const MaxVersions = 10000

// ErrNoFreeVersion is returned when every versioned name up to MaxVersions
// is taken.
var ErrNoFreeVersion = errors.New("no free versioned output name")

// Choice is the resolution for an output path that already exists.
type Choice int

const (
	Overwrite Choice = iota + 1
	Version
)

func (c Choice) String() string {
	switch c {
	case Overwrite:
		return "overwrite"
	case Version:
		return "version"
	default:
		return "choice(" + strconv.Itoa(int(c)) + ")"
	}
}

// ChoiceFunc decides what to do about an existing output. It is called with
// the colliding path and only when a collision exists. Implementations that
// block, such as a prompt, return ctx.Err() once ctx is done.
type ChoiceFunc func(ctx context.Context, existing string) (Choice, error)

// ExistsFunc reports whether a path is taken.
type ExistsFunc func(path string) bool

// Always returns a ChoiceFunc that answers c without asking.
func Always(c Choice) ChoiceFunc {
	return func(context.Context, string) (Choice, error) { return c, nil }
}

// FileExists is the default ExistsFunc. Paths that cannot be stat'ed for a
// reason other than absence count as taken so they are never overwritten
// without a decision.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// ResolveOutput returns the path an output should be written to. A
// candidate that does not exist is returned unchanged and choose is not
// called. Otherwise choose decides: Overwrite keeps the candidate, Version
// picks the first free "<base>_N<ext>" with N counting from 1.
func ResolveOutput(ctx context.Context, candidate string, exists ExistsFunc, choose ChoiceFunc) (string, error) {
	if exists == nil {
		exists = FileExists
	}
	if !exists(candidate) {
		return candidate, nil
	}
	if choose == nil {
		return "", fmt.Errorf("output %s exists and no collision policy is set", candidate)
	}

	c, err := choose(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", candidate, err)
	}
	switch c {
	case Overwrite:
		return candidate, nil
	case Version:
		return NextVersion(candidate, exists)
	default:
		return "", fmt.Errorf("resolve %s: unknown %s", candidate, c)
	}
}

// NextVersion returns the first "<base>_N<ext>" (N from 1) for which exists
// is false. Gaps are filled: with _1 and _3 taken, _2 is returned.
func NextVersion(path string, exists ExistsFunc) (string, error) {
	if exists == nil {
		exists = FileExists
	}
	base, ext := splitVersionBase(path)
	for n := 1; n <= MaxVersions; n++ {
		p := base + "_" + strconv.Itoa(n) + ext
		if !exists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoFreeVersion, path)
}
