package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetError records a single sheet that failed to parse. One bad sheet
// never aborts the rest of the workbook; the orchestrator partitions sheet
// results into tables and errors.
type SheetError struct {
	Sheet string
	Err   error
}

func (e SheetError) Error() string {
	return fmt.Sprintf("error parsing sheet %q: %v", e.Sheet, e.Err)
}

func (e SheetError) Unwrap() error { return e.Err }

// ParseWorkbook reads a multi-sheet XLSX workbook. Sheets are visited in
// file order; the first row of each sheet is its header. Empty sheets are
// skipped with a warning. A sheet that fails to read contributes a
// SheetError and the remaining sheets still parse. The returned error is
// fatal (the bytes are not a readable workbook).
func ParseWorkbook(data []byte) ([]Table, []SheetError, []string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	var (
		tables    []Table
		sheetErrs []SheetError
		warnings  []string
	)

	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			sheetErrs = append(sheetErrs, SheetError{Sheet: sheet, Err: err})
			continue
		}
		table, ok := sheetToTable(sheet, rows)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("sheet %q is empty, skipping", sheet))
			continue
		}
		tables = append(tables, table)
	}

	return tables, sheetErrs, warnings, nil
}

// sheetToTable builds a Table from raw sheet rows. Returns false when the
// sheet has no header or no data rows.
func sheetToTable(name string, rows [][]string) (Table, bool) {
	if len(rows) < 2 {
		return Table{}, false
	}

	columns := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		columns[i] = CleanColumn(col)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		record := make(Record, len(columns))
		for i, column := range columns {
			if column == "" {
				continue
			}
			// excelize trims trailing empty cells, so short rows are
			// padded with empty strings.
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			record[column] = cellValue(raw)
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return Table{}, false
	}

	return Table{Name: name, Columns: columns, Rows: records}, true
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
