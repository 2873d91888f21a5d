package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the sheet at the zero-based index from a workbook. Cells
// are read as stored, ignoring their number format.
func ReadXLSX(path string, sheet int) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("table: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet < 0 || sheet >= len(sheets) {
		return Table{}, fmt.Errorf("%w: %s has %d sheet(s), want index %d", ErrSheetNotFound, path, len(sheets), sheet)
	}

	rows, err := f.GetRows(sheets[sheet], excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("table: read %s[%s]: %w", path, sheets[sheet], err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("%w: %s[%s]", ErrNoHeader, path, sheets[sheet])
	}

	return New(rows[0], rows[1:])
}

// WriteXLSX stores t as the first sheet of a new workbook. Cells that
// parse as numbers are written as numbers.
func WriteXLSX(path string, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	if err := writeXLSXRow(f, sheet, 1, t.Columns, false); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeXLSXRow(f, sheet, i+2, row, true); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("table: save %s: %w", path, err)
	}

	return nil
}

func writeXLSXRow(f *excelize.File, sheet string, rowNum int, cells []string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
		if !numeric || i == 0 {
			continue
		}
		if v, err := strconv.ParseFloat(c, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			values[i] = v
		}
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("table: write row %d: %w", rowNum, err)
	}

	return nil
}
