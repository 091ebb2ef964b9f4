package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = "shrinkwrap.toml"

// Load returns [DefaultConfig] overlaid with the TOML file at path. An empty
// path falls back to ./shrinkwrap.toml, which may be absent. An explicit
// path that does not exist is an error. The returned string is the file that
// was read, or "" when none was.
func Load(path string) (Config, string, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, "", nil
		}
		return cfg, "", fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, "", fmt.Errorf("parse config %s: %s", path, strict.String())
		}
		return cfg, "", fmt.Errorf("parse config %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return cfg, abs, nil
}
