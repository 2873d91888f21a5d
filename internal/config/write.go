package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrConfigExists is returned by WriteFile when the target already exists.
var ErrConfigExists = errors.New("config: file already exists")

// WriteFile encodes cfg as TOML at path. An existing file is left alone
// unless overwrite is set.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return fmt.Errorf("config: creating %s: %w", path, err)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("config: encoding %s: %w", path, err)
	}

	return f.Close()
}
