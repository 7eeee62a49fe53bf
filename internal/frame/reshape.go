package frame

import "time"

// DateColumn is the name of the date column produced by Melt and consumed
// by the shipped pipelines. Dates are rendered in ISO form so they sort
// chronologically as strings.
const DateColumn = "Date"

const isoDate = "2006-01-02"

// Melt un-pivots a wide table (one column per observation date) into long
// form: the fixed columns, a Date column, and one value column. Every
// column not listed in fixed must parse as a date under dateLayout;
// otherwise Melt fails with MalformedDateColumnError naming the column.
//
// The output has exactly rows x date-columns records. Output ordering is
// row-major over the input and carries no meaning; consumers rely on key
// uniqueness after reconciliation, not on order.
func Melt(wide Table, fixed []string, dateLayout, valueName string) (Table, error) {
	fixedIdx, err := wide.keyIndices(fixed)
	if err != nil {
		return Table{}, err
	}
	isFixed := make(map[int]bool, len(fixedIdx))
	for _, idx := range fixedIdx {
		isFixed[idx] = true
	}

	type dateCol struct {
		idx int
		iso string
	}
	var dateCols []dateCol
	for idx, name := range wide.cols {
		if isFixed[idx] {
			continue
		}
		d, err := time.Parse(dateLayout, name)
		if err != nil {
			return Table{}, &MalformedDateColumnError{Column: name, Err: err}
		}
		dateCols = append(dateCols, dateCol{idx: idx, iso: d.Format(isoDate)})
	}

	out := NewTable(append(append([]string(nil), fixed...), DateColumn, valueName)...)
	out.rows = make([][]Value, 0, wide.Len()*len(dateCols))
	for _, row := range wide.rows {
		for _, dc := range dateCols {
			cells := make([]Value, len(out.cols))
			for i, idx := range fixedIdx {
				cells[i] = row[idx]
			}
			cells[len(fixed)] = Str(dc.iso)
			cells[len(fixed)+1] = row[dc.idx]
			out.rows = append(out.rows, cells)
		}
	}
	return out, nil
}
