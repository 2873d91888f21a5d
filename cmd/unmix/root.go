package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-unmix/internal/config"
	"github.com/cwbudde/algo-unmix/internal/logger"
)

const rootLongDesc = `unmix estimates, for every sample row of a spectral-feature table, the
fractions a1 and a2 = 1 - a1 of two reference endmembers whose linear mixture
best explains the sample's features.

Commands:
  unmix resolve    Resolve every sample row and write the result table
  unmix info       Show the endmember table and per-feature contrast
  unmix init       Write an unmix.toml with default settings`

// env carries the loaded configuration into subcommands.
type env struct {
	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unmix",
		Short:         "Two-endmember spectral feature unmixing",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().String("config", "", "config file (default ./unmix.toml)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().Bool("json", false, "log as JSON")

	cmd.AddCommand(newResolveCmd(), newInfoCmd(), newInitCmd())

	return cmd
}

// loadEnv reads the configuration for cmd and binds its flags. bindings
// maps viper keys to flag names on cmd.
func loadEnv(cmd *cobra.Command, bindings map[string]string) (*env, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	v, err := config.InitViper(configFile)
	if err != nil {
		return nil, err
	}

	bindings["log.debug"] = "debug"
	bindings["log.json"] = "json"
	for key, name := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	l := logger.New(
		logger.WithDebug(cfg.Log.Debug),
		logger.WithJSON(cfg.Log.JSON),
		logger.WithWriters(cmd.ErrOrStderr()),
	)

	return &env{cfg: cfg, logger: l}, nil
}
