package batch

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-unmix/mixture"
	"github.com/cwbudde/algo-unmix/table"
)

// endmemberCount is the number of rows an endmember table must have.
const endmemberCount = 2

// outcome is the result of one row. It is stored in the slot matching the
// row's input position; exactly one of rec and err is meaningful.
type outcome struct {
	rec Record
	err *RowError
}

// PairFromTable validates an endmember table and converts it to a
// mixture.Pair. Every failure wraps ErrStructure.
func PairFromTable(t table.Table) (mixture.Pair, error) {
	if t.Len() != endmemberCount {
		return mixture.Pair{}, fmt.Errorf("%w: endmember table has %d rows, want %d", ErrStructure, t.Len(), endmemberCount)
	}

	features := t.Features()
	if len(features) == 0 {
		return mixture.Pair{}, fmt.Errorf("%w: endmember table has no feature columns", ErrStructure)
	}

	var ems [endmemberCount]mixture.Endmember
	for i := range ems {
		values, err := parseRow(t.Rows[i], features)
		if err != nil {
			return mixture.Pair{}, fmt.Errorf("%w: endmember %q: %w", ErrStructure, t.ID(i), err)
		}
		ems[i] = mixture.Endmember{ID: t.ID(i), Values: values}
	}

	pair, err := mixture.NewPair(features, ems[0], ems[1])
	if err != nil {
		return mixture.Pair{}, fmt.Errorf("%w: %w", ErrStructure, err)
	}

	return pair, nil
}

// Run resolves every row of samples against the endmember table.
//
// A structural error or a cancelled context returns a nil Report. Row
// failures never make Run fail; they are listed in Report.Failures.
// Cancellation is observed between rows, never inside one optimization.
func Run(ctx context.Context, endmembers, samples table.Table, opts ...Option) (*Report, error) {
	o := newOptions(opts)
	l := o.logger.With("run", o.runID)

	pair, err := PairFromTable(endmembers)
	if err != nil {
		return nil, err
	}

	if got, want := len(samples.Features()), pair.Len(); got != want {
		return nil, fmt.Errorf("%w: sample table has %d feature columns, endmember table has %d", ErrStructure, got, want)
	}

	for i, name := range samples.Features() {
		if !table.SameName(name, pair.Features[i]) {
			l.Warn("feature names differ, aligning by position",
				"column", i+1, "sample", name, "endmember", pair.Features[i])
		}
	}

	l.Info("resolving rows", "rows", samples.Len(), "features", pair.Len(),
		"endmember1", pair.First.ID, "endmember2", pair.Second.ID, "workers", o.workers)

	r := &rowResolver{
		resolver: mixture.NewResolver(pair, o.mixture),
		features: samples.Features(),
		strict:   o.strictConvergence,
	}

	outcomes := make([]outcome, samples.Len())
	if o.workers > 1 {
		err = runParallel(ctx, r, samples, outcomes, o)
	} else {
		err = runSequential(ctx, r, samples, outcomes, o)
	}
	if err != nil {
		l.Error("run cancelled", "err", err)
		return nil, err
	}

	report := &Report{
		RunID:    o.runID,
		Features: pair.Features,
		Rows:     samples.Len(),
	}
	for _, oc := range outcomes {
		if oc.err != nil {
			l.Error("row skipped", "line", oc.err.Line, "row", oc.err.ID, "err", oc.err.Err)
			report.Failures = append(report.Failures, oc.err)
			continue
		}
		l.Debug("row resolved", "row", oc.rec.ID, "a1", oc.rec.A1, "ssr", oc.rec.SSR, "evals", oc.rec.Evaluations)
		report.Results = append(report.Results, oc.rec)
	}

	l.Info("run finished", "resolved", len(report.Results), "skipped", len(report.Failures))

	return report, nil
}

func runSequential(ctx context.Context, r *rowResolver, samples table.Table, outcomes []outcome, o *options) error {
	for i := range samples.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcomes[i] = r.resolve(i, samples.Line(i), samples.Rows[i])
		if o.progress != nil {
			o.progress(i+1, len(outcomes))
		}
	}

	return nil
}

func runParallel(ctx context.Context, r *rowResolver, samples table.Table, outcomes []outcome, o *options) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	var (
		mu   sync.Mutex
		done int
	)

	for i := range samples.Rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine writes only its own slot.
			outcomes[i] = r.resolve(i, samples.Line(i), samples.Rows[i])

			if o.progress != nil {
				mu.Lock()
				done++
				o.progress(done, len(outcomes))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

type rowResolver struct {
	resolver *mixture.Resolver
	features []string
	strict   bool
}

func (r *rowResolver) resolve(index, line int, row []string) outcome {
	var id string
	if len(row) > 0 {
		id = row[0]
	}
	fail := func(err error) outcome {
		return outcome{err: &RowError{Index: index, Line: line, ID: id, Err: err}}
	}

	values, err := parseRow(row, r.features)
	if err != nil {
		return fail(err)
	}

	sol, err := r.resolver.Resolve(values)
	if err != nil {
		return fail(err)
	}
	if r.strict && !sol.Converged {
		return fail(fmt.Errorf("%w after %d evaluations", ErrNotConverged, sol.Evaluations))
	}

	return outcome{rec: Record{
		Index:       index,
		Line:        line,
		ID:          id,
		A1:          sol.A1,
		A2:          sol.A2,
		SSR:         sol.SSR,
		Predicted:   sol.Predicted,
		Evaluations: sol.Evaluations,
		Converged:   sol.Converged,
	}}
}

// parseRow converts the feature cells of row (everything after the
// identifier) to finite numbers.
func parseRow(row []string, features []string) ([]float64, error) {
	if len(row) != len(features)+1 {
		return nil, fmt.Errorf("%w: %d cells, want %d", ErrRowWidth, len(row), len(features)+1)
	}

	values := make([]float64, len(features))
	for j, cell := range row[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: column %q = %q", ErrMalformedValue, features[j], cell)
		}
		values[j] = v
	}

	return values, nil
}
