package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-unmix/batch"
	"github.com/cwbudde/algo-unmix/mixture"
	"github.com/cwbudde/algo-unmix/stats/summary"
	"github.com/cwbudde/algo-unmix/table"
)

const resolveLongDesc = `Resolve every row of a sample feature table against a two-row endmember table.

Column 0 of both tables is the row identifier; the remaining columns are
feature values aligned by position. Rows that cannot be resolved are logged and
skipped. A wrong endmember count or mismatched feature columns abort the run.

When --samples names a directory, every table in it is resolved and written
next to --out (a directory) as <name>_predicted.<ext>.

Examples:
  unmix resolve --endmembers em.xlsx --samples results.xlsx --sheet 1
  unmix resolve --endmembers em.csv --samples features.csv --out predicted.csv
  unmix resolve --samples ./features --out ./predicted --workers 8 --progress`

type resolveFlags struct {
	endmembers string
	samples    string
	out        string
	sheet      int
	workers    int
	progress   bool
	strict     bool
}

func newResolveCmd() *cobra.Command {
	var f resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve mixture fractions for every sample row",
		Long:  resolveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.endmembers, "endmembers", "", "endmember table (default from config)")
	cmd.Flags().StringVar(&f.samples, "samples", "", "sample feature table or directory (default from config)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "result table path, or directory when --samples is one")
	cmd.Flags().IntVar(&f.sheet, "sheet", 1, "zero-based workbook sheet holding the sample features")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 1, "rows resolved concurrently")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "show a progress bar")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "skip rows whose optimizer hit the evaluation cap")

	return cmd
}

func runResolve(cmd *cobra.Command, f resolveFlags) error {
	e, err := loadEnv(cmd, map[string]string{
		"sample_sheet":   "sheet",
		"batch.workers":  "workers",
		"batch.progress": "progress",
	})
	if err != nil {
		return err
	}
	cfg := e.cfg

	emPath, samplesPath, out := f.endmembers, f.samples, f.out
	if emPath == "" || samplesPath == "" || out == "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if emPath == "" {
		emPath = cfg.Endmembers()
	}
	if samplesPath == "" {
		samplesPath = cfg.Samples()
	}

	endmembers, err := table.Read(emPath, 0)
	if err != nil {
		return fmt.Errorf("reading endmembers: %w", err)
	}

	jobs, err := resolveJobs(samplesPath, out, cfg.DataPath(), cfg.Results())
	if err != nil {
		return err
	}

	opts := []batch.Option{
		batch.WithLogger(e.logger),
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithStrictConvergence(f.strict),
		batch.WithMixtureConfig(mixture.Config{
			Tolerance:     cfg.Optimizer.Tolerance,
			MaxIterations: cfg.Optimizer.MaxIterations,
			Epsilon:       cfg.Optimizer.Epsilon,
		}),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	for _, job := range jobs {
		e.logger.Info("reading samples", "path", job.in, "sheet", cfg.SampleSheet)

		samples, err := table.Read(job.in, cfg.SampleSheet)
		if err != nil {
			return fmt.Errorf("reading samples: %w", err)
		}

		runOpts := append([]batch.Option(nil), opts...)
		var bar *progressbar.ProgressBar
		if cfg.Batch.Progress {
			bar = progressbar.NewOptions(samples.Len(),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription(filepath.Base(job.in)),
			)
			runOpts = append(runOpts, batch.WithProgress(func(int, int) {
				_ = bar.Add(1)
			}))
		}

		report, err := batch.Run(ctx, endmembers, samples, runOpts...)
		if bar != nil {
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		if err != nil {
			return err
		}

		if err := table.Write(job.out, report.Table()); err != nil {
			return err
		}
		e.logger.Info("results written", "path", job.out, "rows", len(report.Results))

		if err := printSummary(cmd.OutOrStdout(), job.in, report.Summary()); err != nil {
			return err
		}
	}

	return nil
}

type resolveJob struct {
	in  string
	out string
}

// resolveJobs expands the samples path into input/output pairs. A single
// file defaults to resultsPath; a directory defaults to dataDir.
func resolveJobs(samplesPath, out, dataDir, resultsPath string) ([]resolveJob, error) {
	fi, err := os.Stat(samplesPath)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	if !fi.IsDir() {
		if out == "" {
			out = resultsPath
		}
		return []resolveJob{{in: samplesPath, out: out}}, nil
	}

	if out == "" {
		out = dataDir
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", out, err)
	}

	files, err := table.ListTables(samplesPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no sample tables found in " + samplesPath)
	}

	jobs := make([]resolveJob, len(files))
	for i, in := range files {
		ext := filepath.Ext(in)
		base := strings.TrimSuffix(filepath.Base(in), ext)
		jobs[i] = resolveJob{in: in, out: filepath.Join(out, base+"_predicted"+ext)}
	}

	return jobs, nil
}

func printSummary(w io.Writer, name string, s batch.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s: %d resolved, %d skipped\n", name, s.Resolved, s.Skipped)
	fmt.Fprintf(tw, "Value\tMean\tStd\tMin\tMedian\tMax\n")
	fmt.Fprintf(tw, "-----\t----\t---\t---\t------\t---\n")
	printStatsRow(tw, "a1", s.A1, s.MedianA1)
	printStatsRow(tw, "ssr", s.SSR, s.MedianSSR)

	return tw.Flush()
}

func printStatsRow(w io.Writer, label string, s summary.Stats, median float64) {
	if s.Count == 0 {
		fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\n", label)
		return
	}
	fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n", label, s.Mean, s.StdDev, s.Min, median, s.Max)
}
