package batch

import (
	"strconv"

	"github.com/cwbudde/algo-unmix/stats/summary"
	"github.com/cwbudde/algo-unmix/table"
)

// Record is the result for one successfully resolved sample row.
type Record struct {
	Index int // zero-based index into the sample table's non-blank rows
	Line  int // source line or sheet row, header on line 1
	ID    string
	A1    float64
	A2    float64
	SSR   float64

	// Predicted holds the mixture vector at A1, in feature order.
	Predicted []float64

	Evaluations int
	Converged   bool
}

// Report is the outcome of a batch run. Results keep the input row order
// with skipped rows left out, so len(Results) may be less than Rows.
type Report struct {
	RunID    string
	Features []string
	Rows     int
	Results  []Record
	Failures []*RowError
}

// Summary describes the distribution of fractions and residuals in a run.
type Summary struct {
	Resolved  int
	Skipped   int
	A1        summary.Stats
	SSR       summary.Stats
	MedianA1  float64
	MedianSSR float64
}

// Table renders the results as id, a1, a2, ssr followed by one column per
// predicted feature.
func (r *Report) Table() table.Table {
	cols := make([]string, 0, 4+len(r.Features))
	cols = append(cols, "id", "a1", "a2", "ssr")
	cols = append(cols, r.Features...)

	rows := make([][]string, len(r.Results))
	for i, rec := range r.Results {
		row := make([]string, 0, len(cols))
		row = append(row, rec.ID, formatFloat(rec.A1), formatFloat(rec.A2), formatFloat(rec.SSR))
		for _, v := range rec.Predicted {
			row = append(row, formatFloat(v))
		}
		rows[i] = row
	}

	return table.Table{Columns: cols, Rows: rows}
}

// Summary computes statistics over the resolved rows.
func (r *Report) Summary() Summary {
	var a1, ssr summary.Accumulator
	a1s := make([]float64, len(r.Results))
	ssrs := make([]float64, len(r.Results))
	for i, rec := range r.Results {
		a1.Add(rec.A1)
		ssr.Add(rec.SSR)
		a1s[i] = rec.A1
		ssrs[i] = rec.SSR
	}

	return Summary{
		Resolved:  len(r.Results),
		Skipped:   len(r.Failures),
		A1:        a1.Result(),
		SSR:       ssr.Result(),
		MedianA1:  summary.Median(a1s),
		MedianSSR: summary.Median(ssrs),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
