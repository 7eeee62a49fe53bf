package frame

import "sort"

// AggregationRule collapses the values one column takes within a group of
// rows sharing an identity key. Combine must be associative and
// commutative so the result is independent of row order, and must treat
// an absent operand as its identity (return the other operand unchanged).
// A singleton group therefore passes through the rule untouched.
type AggregationRule struct {
	Name    string
	Combine func(a, b Value) Value
}

// Sum adds numeric values, treating absent as 0 without ever inventing a
// zero: a group that is entirely absent stays absent. Non-numeric
// operands fall back to keeping the first non-absent value.
func Sum() AggregationRule {
	return AggregationRule{
		Name: "sum",
		Combine: func(a, b Value) Value {
			if a.IsAbsent() {
				return b
			}
			if b.IsAbsent() {
				return a
			}
			fa, oka := a.Float()
			fb, okb := b.Float()
			if !oka || !okb {
				return a
			}
			return Num(fa + fb)
		},
	}
}

// Max keeps the numerically greatest value; absent is the identity.
func Max() AggregationRule {
	return AggregationRule{
		Name: "max",
		Combine: func(a, b Value) Value {
			if a.IsAbsent() {
				return b
			}
			if b.IsAbsent() {
				return a
			}
			fa, oka := a.Float()
			fb, okb := b.Float()
			if !oka || !okb {
				return a
			}
			if fb > fa {
				return b
			}
			return a
		},
	}
}

// First keeps the first non-absent value encountered. Only safe when all
// duplicates agree, since order within a group is not meaningful; it is
// the default for columns without a configured rule.
func First() AggregationRule {
	return AggregationRule{
		Name: "first",
		Combine: func(a, b Value) Value {
			if a.IsAbsent() {
				return b
			}
			return a
		},
	}
}

// Reconcile groups rows by the identity key and collapses each group to a
// single row by applying the per-column rules to every non-key column.
// Columns without a configured rule use First. The output holds exactly
// one row per distinct key present in the input, sorted by key; no key is
// invented or dropped.
func Reconcile(t Table, key []string, rules map[string]AggregationRule) (Table, error) {
	keyIdx, err := t.keyIndices(key)
	if err != nil {
		return Table{}, err
	}
	for col := range rules {
		if _, ok := t.ColumnIndex(col); !ok {
			return Table{}, &UnknownColumnError{Column: col}
		}
	}
	isKey := make(map[int]bool, len(keyIdx))
	for _, idx := range keyIdx {
		isKey[idx] = true
	}

	// Resolve the rule for every non-key column position once.
	type valueCol struct {
		idx  int
		rule AggregationRule
	}
	var valueCols []valueCol
	for idx, name := range t.cols {
		if isKey[idx] {
			continue
		}
		rule, ok := rules[name]
		if !ok {
			rule = First()
		}
		valueCols = append(valueCols, valueCol{idx: idx, rule: rule})
	}

	groups := make(map[string][]Value)
	for _, row := range t.rows {
		k := keyOf(row, keyIdx)
		acc, seen := groups[k]
		if !seen {
			groups[k] = append([]Value(nil), row...)
			continue
		}
		for _, vc := range valueCols {
			acc[vc.idx] = vc.rule.Combine(acc[vc.idx], row[vc.idx])
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := Table{cols: t.Columns(), rows: make([][]Value, 0, len(keys))}
	for _, k := range keys {
		out.rows = append(out.rows, groups[k])
	}
	return out, nil
}
