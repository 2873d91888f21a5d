package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-unmix/batch"
	"github.com/cwbudde/algo-unmix/mixture"
	"github.com/cwbudde/algo-unmix/table"
)

const infoLongDesc = `Print the endmember table with the symmetric relative difference of every
feature between the two endmembers. Features with a contrast near zero carry
no information about the mixture fraction.

Examples:
  unmix info --endmembers em.xlsx`

func newInfoCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show endmembers and per-feature contrast",
		Long:  infoLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, map[string]string{})
			if err != nil {
				return err
			}
			if path == "" {
				path = e.cfg.Endmembers()
			}

			t, err := table.Read(path, 0)
			if err != nil {
				return fmt.Errorf("reading endmembers: %w", err)
			}

			pair, err := batch.PairFromTable(t)
			if err != nil {
				return err
			}

			return printPair(cmd.OutOrStdout(), pair, e.cfg.Optimizer.Epsilon)
		},
	}

	cmd.Flags().StringVar(&path, "endmembers", "", "endmember table (default from config)")

	return cmd
}

func printPair(w io.Writer, pair mixture.Pair, eps float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Feature\t%s\t%s\tContrast\n", pair.First.ID, pair.Second.ID)
	fmt.Fprintf(tw, "-------\t%s\t%s\t--------\n", strings.Repeat("-", len(pair.First.ID)), strings.Repeat("-", len(pair.Second.ID)))

	for i, name := range pair.Features {
		e1, e2 := pair.First.Values[i], pair.Second.Values[i]
		contrast := mixture.RelativeDifference(e1, e2, eps)
		fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%+.4f\n", name, e1, e2, contrast)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	var flat int
	for i := range pair.Features {
		if math.Abs(mixture.RelativeDifference(pair.First.Values[i], pair.Second.Values[i], eps)) < 1e-3 {
			flat++
		}
	}
	if flat > 0 {
		_, err := fmt.Fprintf(w, "\n%d feature(s) with |contrast| < 0.001 do not constrain the fraction\n", flat)
		return err
	}

	return nil
}
