package frame

// Filter partitions the table by per-column allowed domains. A row lands
// in removed iff at least one constrained cell holds a non-absent value
// outside its column's domain; absent cells are never anomalous (they are
// the Normalizer's business). Exclusion is whole-row: an invalid value may
// invalidate correlated fields in the same row, so there is no partial
// repair. Every input row appears in exactly one partition, in input
// order, so callers can audit what was excluded.
func Filter(t Table, domains map[string][]string) (kept, removed Table, err error) {
	type constraint struct {
		idx     int
		allowed map[string]bool
	}
	constraints := make([]constraint, 0, len(domains))
	for col, values := range domains {
		idx, ok := t.ColumnIndex(col)
		if !ok {
			return Table{}, Table{}, &UnknownColumnError{Column: col}
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		constraints = append(constraints, constraint{idx: idx, allowed: set})
	}

	kept = Table{cols: t.Columns()}
	removed = Table{cols: t.Columns()}
	for _, row := range t.rows {
		anomalous := false
		for _, c := range constraints {
			v := row[c.idx]
			if v.IsAbsent() {
				continue
			}
			if !c.allowed[v.Render()] {
				anomalous = true
				break
			}
		}
		cells := append([]Value(nil), row...)
		if anomalous {
			removed.rows = append(removed.rows, cells)
		} else {
			kept.rows = append(kept.rows, cells)
		}
	}
	return kept, removed, nil
}
