// Package config loads unmix settings from defaults, an optional TOML file
// and UNMIX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Errors returned by Validate.
var (
	ErrProjectDirectory = errors.New("config: project directory not found")
	ErrNoEndmembers     = errors.New("config: endmembers path not set")
)

// Config is the full unmix configuration.
type Config struct {
	ProjectDirectory string `mapstructure:"project_directory" toml:"project_directory"`
	InputFolderName  string `mapstructure:"input_folder_name" toml:"input_folder_name"`
	OutputFolderName string `mapstructure:"output_folder_name" toml:"output_folder_name"`

	// EndmembersPath is resolved against the input folder when relative.
	EndmembersPath string `mapstructure:"endmembers_path" toml:"endmembers_path"`
	// SamplesPath is resolved against the output data folder when relative.
	SamplesPath string `mapstructure:"samples_path" toml:"samples_path"`
	// SampleSheet is the zero-based workbook sheet holding the sample features.
	SampleSheet int `mapstructure:"sample_sheet" toml:"sample_sheet"`
	// ResultsName is the result file name inside the output data folder.
	ResultsName string `mapstructure:"results_name" toml:"results_name"`

	Optimizer OptimizerConfig `mapstructure:"optimizer" toml:"optimizer"`
	Batch     BatchConfig     `mapstructure:"batch" toml:"batch"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
}

// OptimizerConfig holds the bounded minimizer settings.
type OptimizerConfig struct {
	Tolerance     float64 `mapstructure:"tolerance" toml:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations" toml:"max_iterations"`
	Epsilon       float64 `mapstructure:"epsilon" toml:"epsilon"`
}

// BatchConfig holds batch driver settings.
type BatchConfig struct {
	Workers  int  `mapstructure:"workers" toml:"workers"`
	Progress bool `mapstructure:"progress" toml:"progress"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool `mapstructure:"debug" toml:"debug"`
	JSON  bool `mapstructure:"json" toml:"json"`
}

// InputPath returns the input folder.
func (c *Config) InputPath() string {
	return filepath.Join(expandHome(c.ProjectDirectory), c.InputFolderName)
}

// OutputPath returns the output folder.
func (c *Config) OutputPath() string {
	return filepath.Join(expandHome(c.ProjectDirectory), c.OutputFolderName)
}

// DataPath returns the folder holding feature and result tables.
func (c *Config) DataPath() string {
	return filepath.Join(c.OutputPath(), "data")
}

// Endmembers returns the endmember table path.
func (c *Config) Endmembers() string {
	return resolve(c.InputPath(), c.EndmembersPath)
}

// Samples returns the sample feature table path.
func (c *Config) Samples() string {
	return resolve(c.DataPath(), c.SamplesPath)
}

// Results returns the result table path.
func (c *Config) Results() string {
	return resolve(c.DataPath(), c.ResultsName)
}

// Validate checks that the project directory exists and creates the
// output data folder when missing.
func (c *Config) Validate() error {
	root := expandHome(c.ProjectDirectory)
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %q", ErrProjectDirectory, root)
	}
	if strings.TrimSpace(c.EndmembersPath) == "" {
		return ErrNoEndmembers
	}
	if err := os.MkdirAll(c.DataPath(), 0o755); err != nil {
		return fmt.Errorf("config: creating %s: %w", c.DataPath(), err)
	}

	return nil
}

func resolve(base, p string) string {
	p = expandHome(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
