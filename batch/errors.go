package batch

import (
	"errors"
	"fmt"
)

// Errors returned or recorded by Run.
var (
	ErrStructure      = errors.New("batch: structural mismatch")
	ErrMalformedValue = errors.New("batch: malformed feature value")
	ErrRowWidth       = errors.New("batch: row width mismatch")
	ErrNotConverged   = errors.New("batch: optimizer did not converge")
)

// RowError is a failure confined to one sample row.
type RowError struct {
	Index int    // zero-based index into the sample table's non-blank rows
	Line  int    // source line or sheet row of the row, header on line 1
	ID    string // identifier cell of the row
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.ID, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
