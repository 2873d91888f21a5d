package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by InitViper.
const EnvPrefix = "UNMIX"

// InitViper creates a configured *viper.Viper.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the caller)
//  2. Environment variables (UNMIX_PROJECT_DIRECTORY, UNMIX_BATCH_WORKERS, ...)
//  3. The config file: configFile if set, else unmix.toml in the working directory
//  4. Defaults from NewDefaultConfig()
func InitViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("unmix")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load reads the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() using
// dotted keys so that environment overrides are picked up by Unmarshal.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("project_directory", d.ProjectDirectory)
	v.SetDefault("input_folder_name", d.InputFolderName)
	v.SetDefault("output_folder_name", d.OutputFolderName)
	v.SetDefault("endmembers_path", d.EndmembersPath)
	v.SetDefault("samples_path", d.SamplesPath)
	v.SetDefault("sample_sheet", d.SampleSheet)
	v.SetDefault("results_name", d.ResultsName)

	v.SetDefault("optimizer.tolerance", d.Optimizer.Tolerance)
	v.SetDefault("optimizer.max_iterations", d.Optimizer.MaxIterations)
	v.SetDefault("optimizer.epsilon", d.Optimizer.Epsilon)

	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.progress", d.Batch.Progress)

	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.json", d.Log.JSON)
}
