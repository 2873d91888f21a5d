package batch

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-unmix/internal/logger"
	"github.com/cwbudde/algo-unmix/internal/testutil"
	"github.com/cwbudde/algo-unmix/mixture"
	"github.com/cwbudde/algo-unmix/table"
)

var (
	emFirst  = []float64{0.12, 2210, 35}
	emSecond = []float64{0.30, 2165, 52}
)

func mustTable(t *testing.T, cols []string, rows [][]string) table.Table {
	t.Helper()

	tbl, err := table.New(cols, rows)
	require.NoError(t, err)

	return tbl
}

func endmemberTable(t *testing.T) table.Table {
	t.Helper()

	return mustTable(t, []string{"name", "depth", "center", "fwhm"}, [][]string{
		rowFor("kaolinite", emFirst),
		rowFor("smectite", emSecond),
	})
}

func rowFor(id string, values []float64) []string {
	row := []string{id}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return row
}

func blendRow(id string, a1 float64) []string {
	return rowFor(id, testutil.Blend(emFirst, emSecond, a1))
}

func sampleTable(t *testing.T, rows ...[]string) table.Table {
	t.Helper()

	return mustTable(t, []string{"filename", "depth", "center", "fwhm"}, rows)
}

func TestRunSkipsMalformedRow(t *testing.T) {
	samples := sampleTable(t,
		blendRow("s1", 0.1),
		blendRow("s2", 0.4),
		[]string{"s3", "0.2", "n/a", "40"},
		blendRow("s4", 0.7),
		blendRow("s5", 0.9),
	)

	var logs bytes.Buffer
	l := logger.New(logger.WithWriters(&logs), logger.WithTimestamp(false))

	report, err := Run(context.Background(), endmemberTable(t), samples, WithLogger(l))
	require.NoError(t, err)

	require.Equal(t, 5, report.Rows)
	require.Len(t, report.Results, 4)
	require.Len(t, report.Failures, 1)

	failure := report.Failures[0]
	require.Equal(t, 2, failure.Index)
	require.Equal(t, "s3", failure.ID)
	require.ErrorIs(t, failure, ErrMalformedValue)
	require.Contains(t, logs.String(), "row=s3")

	wantIDs := []string{"s1", "s2", "s4", "s5"}
	wantA1 := []float64{0.1, 0.4, 0.7, 0.9}
	for i, rec := range report.Results {
		require.Equal(t, wantIDs[i], rec.ID)
		require.InDelta(t, wantA1[i], rec.A1, 1e-3)
		require.Equal(t, 1.0, rec.A1+rec.A2)
		require.Less(t, rec.SSR, 1e-8)
	}
}

func TestRunStructuralErrors(t *testing.T) {
	samples := sampleTable(t, blendRow("s1", 0.5))

	tests := []struct {
		name       string
		endmembers table.Table
		samples    table.Table
	}{
		{
			name: "three endmembers",
			endmembers: mustTable(t, []string{"name", "depth", "center", "fwhm"}, [][]string{
				rowFor("a", emFirst), rowFor("b", emSecond), rowFor("c", emFirst),
			}),
			samples: samples,
		},
		{
			name: "one endmember",
			endmembers: mustTable(t, []string{"name", "depth", "center", "fwhm"}, [][]string{
				rowFor("a", emFirst),
			}),
			samples: samples,
		},
		{
			name:       "feature count mismatch",
			endmembers: endmemberTable(t),
			samples:    mustTable(t, []string{"filename", "depth", "center"}, [][]string{{"s1", "0.2", "2190"}}),
		},
		{
			name: "non-numeric endmember",
			endmembers: mustTable(t, []string{"name", "depth", "center", "fwhm"}, [][]string{
				rowFor("a", emFirst), {"b", "0.3", "?", "52"},
			}),
			samples: samples,
		},
		{
			name:       "no features",
			endmembers: mustTable(t, []string{"name"}, [][]string{{"a"}, {"b"}}),
			samples:    mustTable(t, []string{"filename"}, [][]string{{"s1"}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Run(context.Background(), tt.endmembers, tt.samples)
			require.ErrorIs(t, err, ErrStructure)
			require.Nil(t, report)
		})
	}
}

func TestRunRowWidth(t *testing.T) {
	samples := sampleTable(t,
		blendRow("s1", 0.3),
		append(blendRow("s2", 0.3), "extra"),
	)

	report, err := Run(context.Background(), endmemberTable(t), samples)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.Len(t, report.Failures, 1)
	require.ErrorIs(t, report.Failures[0], ErrRowWidth)
	require.Equal(t, "s2", report.Failures[0].ID)
}

func TestRunNonFiniteCell(t *testing.T) {
	samples := sampleTable(t, []string{"s1", "NaN", "2190", "40"}, []string{"s2", "0.2", "+Inf", "40"}, []string{"s3", "", "2190", "40"})

	report, err := Run(context.Background(), endmemberTable(t), samples)
	require.NoError(t, err)
	require.Empty(t, report.Results)
	require.Len(t, report.Failures, 3)
	for _, f := range report.Failures {
		require.ErrorIs(t, f, ErrMalformedValue)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	rows := make([][]string, 0, 200)
	for i := range 200 {
		id := fmt.Sprintf("s%03d", i)
		if i%17 == 5 {
			rows = append(rows, []string{id, "bad", "2190", "40"})
			continue
		}
		rows = append(rows, blendRow(id, float64(i%100)/99))
	}
	samples := sampleTable(t, rows...)
	ems := endmemberTable(t)

	seq, err := Run(context.Background(), ems, samples, WithRunID("seq"))
	require.NoError(t, err)

	par, err := Run(context.Background(), ems, samples, WithWorkers(8), WithRunID("par"))
	require.NoError(t, err)

	require.Equal(t, seq.Results, par.Results)
	require.Len(t, par.Failures, len(seq.Failures))
	for i := range seq.Failures {
		require.Equal(t, seq.Failures[i].Index, par.Failures[i].Index)
		require.Equal(t, seq.Failures[i].ID, par.Failures[i].ID)
	}

	for i := 1; i < len(par.Results); i++ {
		require.Less(t, par.Results[i-1].Index, par.Results[i].Index)
	}
}

func TestRunCancelled(t *testing.T) {
	samples := sampleTable(t, blendRow("s1", 0.5), blendRow("s2", 0.5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		report, err := Run(ctx, endmemberTable(t), samples, WithWorkers(workers))
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, report)
	}
}

func TestRunProgress(t *testing.T) {
	samples := sampleTable(t, blendRow("s1", 0.2), blendRow("s2", 0.4), blendRow("s3", 0.6))

	for _, workers := range []int{1, 3} {
		var (
			mu    sync.Mutex
			calls []int
		)
		_, err := Run(context.Background(), endmemberTable(t), samples,
			WithWorkers(workers),
			WithProgress(func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				require.Equal(t, 3, total)
				calls = append(calls, done)
			}),
		)
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, calls)
	}
}

func TestRunStrictConvergence(t *testing.T) {
	samples := sampleTable(t, blendRow("s1", 0.37))
	capped := WithMixtureConfig(mixture.Config{MaxIterations: 2})

	lenient, err := Run(context.Background(), endmemberTable(t), samples, capped)
	require.NoError(t, err)
	require.Len(t, lenient.Results, 1)
	require.False(t, lenient.Results[0].Converged)

	strict, err := Run(context.Background(), endmemberTable(t), samples, capped, WithStrictConvergence(true))
	require.NoError(t, err)
	require.Empty(t, strict.Results)
	require.ErrorIs(t, strict.Failures[0], ErrNotConverged)
}

func TestRunFeatureNameMismatchWarns(t *testing.T) {
	samples := mustTable(t, []string{"filename", "DEPTH", "centre", "fwhm"}, [][]string{blendRow("s1", 0.5)})

	var logs bytes.Buffer
	l := logger.New(logger.WithWriters(&logs), logger.WithTimestamp(false))

	report, err := Run(context.Background(), endmemberTable(t), samples, WithLogger(l))
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.Equal(t, []string{"depth", "center", "fwhm"}, report.Features)
	require.Contains(t, logs.String(), "sample=centre")
	require.NotContains(t, logs.String(), "sample=DEPTH")
}

func TestRunDoesNotMutateInputs(t *testing.T) {
	ems := endmemberTable(t)
	samples := sampleTable(t, blendRow("s1", 0.5), blendRow("s2", 0.25))
	emsBefore := fmt.Sprint(ems)
	samplesBefore := fmt.Sprint(samples)

	_, err := Run(context.Background(), ems, samples, WithWorkers(2))
	require.NoError(t, err)
	require.Equal(t, emsBefore, fmt.Sprint(ems))
	require.Equal(t, samplesBefore, fmt.Sprint(samples))
}

func TestReportTable(t *testing.T) {
	samples := sampleTable(t, blendRow("s1", 0.5), []string{"s2", "x", "1", "1"}, blendRow("s3", 1))

	report, err := Run(context.Background(), endmemberTable(t), samples)
	require.NoError(t, err)

	out := report.Table()
	require.Equal(t, []string{"id", "a1", "a2", "ssr", "depth", "center", "fwhm"}, out.Columns)
	require.Len(t, out.Rows, 2)
	require.Equal(t, "s1", out.Rows[0][0])
	require.Equal(t, "s3", out.Rows[1][0])

	a1, err := strconv.ParseFloat(out.Rows[0][1], 64)
	require.NoError(t, err)
	require.Equal(t, report.Results[0].A1, a1)

	center, err := strconv.ParseFloat(out.Rows[0][5], 64)
	require.NoError(t, err)
	require.InDelta(t, 2187.5, center, 1e-2)
}

func TestReportSummary(t *testing.T) {
	samples := sampleTable(t, blendRow("s1", 0.2), blendRow("s2", 0.4), blendRow("s3", 0.6), []string{"s4", "", "", ""})

	report, err := Run(context.Background(), endmemberTable(t), samples)
	require.NoError(t, err)

	s := report.Summary()
	require.Equal(t, 3, s.Resolved)
	require.Equal(t, 1, s.Skipped)
	require.InDelta(t, 0.4, s.A1.Mean, 1e-3)
	require.InDelta(t, 0.2, s.A1.Min, 1e-3)
	require.Equal(t, 2, s.A1.MaxPos)
	require.False(t, math.IsNaN(s.MedianSSR))
}

func TestPairFromTable(t *testing.T) {
	pair, err := PairFromTable(endmemberTable(t))
	require.NoError(t, err)
	require.Equal(t, []string{"depth", "center", "fwhm"}, pair.Features)
	require.Equal(t, "kaolinite", pair.First.ID)
	require.Equal(t, emSecond, pair.Second.Values)
}

func TestRowErrorFormat(t *testing.T) {
	err := &RowError{Index: 2, Line: 4, ID: "s3", Err: ErrMalformedValue}
	require.Equal(t, "line 4 (s3): batch: malformed feature value", err.Error())
}

func TestRunReportsSourceLineAfterBlankRows(t *testing.T) {
	samples := sampleTable(t,
		blendRow("s1", 0.2),
		[]string{"", "", "", ""},
		[]string{" ", "", "", ""},
		[]string{"s4", "0.2", "n/a", "40"},
		blendRow("s5", 0.6),
	)

	var logs bytes.Buffer
	l := logger.New(logger.WithWriters(&logs), logger.WithTimestamp(false))

	report, err := Run(context.Background(), endmemberTable(t), samples, WithLogger(l))
	require.NoError(t, err)
	require.Equal(t, 3, report.Rows)

	require.Len(t, report.Failures, 1)
	failure := report.Failures[0]
	require.Equal(t, 1, failure.Index)
	require.Equal(t, 5, failure.Line)
	require.Contains(t, logs.String(), "line=5")

	require.Len(t, report.Results, 2)
	require.Equal(t, 2, report.Results[0].Line)
	require.Equal(t, 6, report.Results[1].Line)
}
