// Package batch applies the two-endmember mixture resolver to every row
// of a sample feature table.
//
// Failures come in two tiers. Structural problems (an endmember table
// without exactly two rows, feature counts that differ between the
// tables, unparseable endmember values) abort the run before any row is
// resolved and are returned as errors wrapping ErrStructure. Problems
// local to one sample row (a non-numeric cell, a row of the wrong width,
// an optimizer failure) are recorded as a RowError in the Report, logged
// with the row identifier, and the row is skipped.
//
// Rows are independent. With WithWorkers(n > 1) they are resolved on a
// bounded worker pool; every outcome is tagged with its input index so
// the result order and failure attribution match a sequential run.
//
// # Usage
//
//	report, err := batch.Run(ctx, endmembers, samples,
//	    batch.WithWorkers(runtime.NumCPU()),
//	    batch.WithLogger(logger),
//	)
//	if err != nil {
//	    // structural error or cancellation: nothing was produced
//	}
//	out := report.Table() // id, a1, a2, ssr, <features...>
package batch
