package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoInputs is returned when no file in the working directory matches the
// chosen extension.
var ErrNoInputs = errors.New("no matching input files")

// Discover lists the regular files directly inside dir whose names end with
// ext. The match is a case-sensitive suffix comparison and subdirectories are
// not entered. Paths are returned sorted lexicographically for deterministic
// processing order.
func Discover(dir, ext string) ([]string, error) {
	if ext == "" {
		return nil, errors.New("no input extension given")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ext) || e.IsDir() {
			continue
		}
		path := filepath.Join(dir, name)
		if !e.Type().IsRegular() {
			// Follow symlinks; skip sockets, devices and links to directories.
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
