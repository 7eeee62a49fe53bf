package frame

// Normalize rewrites, per listed column, any textual cell that exactly
// matches one of the declared sentinel tokens to the canonical absent
// marker. Matching is case-sensitive and per-column: the same token may
// mean "absent" in one column and be a legitimate category in another.
// Columns not listed in sentinels are untouched, already-absent cells
// stay absent, and the whole operation is idempotent. A sentinel map
// naming a column the table does not have fails with UnknownColumnError.
func Normalize(t Table, sentinels map[string][]string) (Table, error) {
	type target struct {
		idx    int
		tokens map[string]bool
	}
	targets := make([]target, 0, len(sentinels))
	for col, tokens := range sentinels {
		idx, ok := t.ColumnIndex(col)
		if !ok {
			return Table{}, &UnknownColumnError{Column: col}
		}
		set := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			set[tok] = true
		}
		targets = append(targets, target{idx: idx, tokens: set})
	}

	out := Table{cols: t.Columns(), rows: make([][]Value, len(t.rows))}
	for i, row := range t.rows {
		cells := append([]Value(nil), row...)
		for _, tg := range targets {
			if s, ok := cells[tg.idx].Text(); ok && tg.tokens[s] {
				cells[tg.idx] = Absent()
			}
		}
		out.rows[i] = cells
	}
	return out, nil
}
