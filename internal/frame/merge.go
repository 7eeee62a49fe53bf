package frame

import (
	"fmt"
	"sort"
)

// Merge performs a full outer join of the given tables on the identity
// key. Every input must already be key-unique; a violation fails with
// DuplicateKeyError rather than silently picking a row. Each input
// contributes its non-key columns to the output; a key absent from some
// input yields absent cells for that input's columns, never zero. The
// output key set is the union of all input key sets, sorted by key.
func Merge(tables []Table, key []string) (Table, error) {
	outCols := append([]string(nil), key...)
	seenCol := make(map[string]bool, len(key))
	for _, c := range key {
		seenCol[c] = true
	}

	type side struct {
		valueIdx []int // positions of this table's value columns in its rows
		outIdx   []int // positions of those columns in the output row
		byKey    map[string][]Value
	}
	sides := make([]side, len(tables))

	for ti, t := range tables {
		keyIdx, err := t.keyIndices(key)
		if err != nil {
			return Table{}, err
		}
		isKey := make(map[int]bool, len(keyIdx))
		for _, idx := range keyIdx {
			isKey[idx] = true
		}
		s := side{byKey: make(map[string][]Value, t.Len())}
		for idx, name := range t.cols {
			if isKey[idx] {
				continue
			}
			if seenCol[name] {
				return Table{}, fmt.Errorf("merge: value column %q appears in more than one input", name)
			}
			seenCol[name] = true
			s.valueIdx = append(s.valueIdx, idx)
			s.outIdx = append(s.outIdx, len(outCols))
			outCols = append(outCols, name)
		}
		for _, row := range t.rows {
			k := keyOf(row, keyIdx)
			if _, dup := s.byKey[k]; dup {
				kv := make([]string, len(keyIdx))
				for i, idx := range keyIdx {
					kv[i] = row[idx].Render()
				}
				return Table{}, &DuplicateKeyError{TableIndex: ti, Key: append([]string(nil), key...), KeyValues: kv}
			}
			s.byKey[k] = row
		}
		sides[ti] = s
	}

	// Union of keys across all inputs; remember one source row per key so
	// the key cells keep their original Values.
	keyCells := make(map[string][]Value)
	for ti, t := range tables {
		keyIdx, _ := t.keyIndices(key)
		for k, row := range sides[ti].byKey {
			if _, ok := keyCells[k]; ok {
				continue
			}
			cells := make([]Value, len(key))
			for i, idx := range keyIdx {
				cells[i] = row[idx]
			}
			keyCells[k] = cells
		}
	}
	keys := make([]string, 0, len(keyCells))
	for k := range keyCells {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := NewTable(outCols...)
	out.rows = make([][]Value, 0, len(keys))
	for _, k := range keys {
		row := make([]Value, len(outCols))
		copy(row, keyCells[k])
		for ti := range tables {
			s := sides[ti]
			src, ok := s.byKey[k]
			if !ok {
				continue // cells stay absent, never zero
			}
			for i, idx := range s.valueIdx {
				row[s.outIdx[i]] = src[idx]
			}
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}
