package table

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads the first populated sheet of an Excel workbook into a
// table. The first row with any non-empty cell is the header, everything
// below it is data. Draft outcome records ship as .xlsx workbooks, so this
// loader mirrors LoadCSV for them.
func LoadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		if t := fromRows(rows); t.Len() > 0 || len(t.cols) > 0 {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no populated sheet in %s", path)
}

func fromRows(rows [][]string) *Table {
	header := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				header = i
				break
			}
		}
		if header >= 0 {
			break
		}
	}
	if header < 0 {
		return Empty()
	}

	cols := make([]string, 0, len(rows[header]))
	for _, c := range rows[header] {
		cols = append(cols, strings.TrimSpace(c))
	}
	t := New(cols...)
	for _, rec := range rows[header+1:] {
		row := make(Row, len(cols))
		empty := true
		for i, col := range cols {
			if i >= len(rec) || col == "" {
				continue
			}
			v := Cell(rec[i])
			if !v.IsNull() {
				empty = false
			}
			row[col] = v
		}
		if !empty {
			t.rows = append(t.rows, row)
		}
	}
	return t
}
