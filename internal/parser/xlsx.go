package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataloom-cli/internal/frame"
)

// ReadXLSX loads one worksheet into a frame.Table. If sheet is empty the
// first sheet in the workbook is used. The first row is the header; cell
// conversion matches ReadCSV.
func ReadXLSX(path, sheet string) (frame.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return frame.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return frame.Table{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	raw, err := f.GetRows(sheet)
	if err != nil {
		return frame.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return frame.Table{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		cols[i] = h
	}
	rows := make([][]frame.Value, 0, len(raw)-1)
	for _, rec := range raw[1:] {
		cells := make([]frame.Value, len(cols))
		for j := range cols {
			if j < len(rec) {
				cells[j] = Cell(rec[j])
			}
		}
		rows = append(rows, cells)
	}
	return frame.FromRows(cols, rows), nil
}
