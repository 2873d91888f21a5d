package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-unmix/internal/config"
)

const initLongDesc = `Write an unmix.toml holding the default settings to the current directory,
or to the path given with --config.

Examples:
  unmix init
  unmix init --config ~/spectra/unmix.toml --force`

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default unmix.toml",
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if path == "" {
				path = "unmix.toml"
			}

			if err := config.WriteFile(path, config.NewDefaultConfig(), force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
