package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the configuration file looked for in the working
// directory.
const DefaultFileName = "lintbridge.toml"

// File is an on-disk configuration file. Engine-level settings sit at
// the top level; each [adapters.<name>] table holds the override map
// merged into that adapter's settings.
type File struct {
	// LogLevel sets engine log verbosity (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	// Adapters maps adapter names to their override tables.
	Adapters map[string]map[string]any `toml:"adapters"`
}

// LoadFile reads a configuration file from path. A missing file is not
// an error; it loads as an empty configuration.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	return &f, nil
}

// Overrides returns the override table for one adapter, or nil when the
// file has none.
func (f *File) Overrides(name string) map[string]any {
	if f == nil || f.Adapters == nil {
		return nil
	}
	return f.Adapters[name]
}
