package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/frame"
)

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Summarize profiles every column of a table: missing counts, numeric
// moments (Welford), and top category values.
func Summarize(t frame.Table) []ColumnSummary {
	cols := t.Columns()
	out := make([]ColumnSummary, 0, len(cols))
	for _, col := range cols {
		s := ColumnSummary{Name: col, Min: math.Inf(1), Max: math.Inf(-1)}
		var n int
		var mean, m2 float64
		numCnt := 0
		cats := make(map[string]int)
		for i := 0; i < t.Len(); i++ {
			v, _ := t.Cell(i, col)
			if v.IsAbsent() {
				s.Missing++
				continue
			}
			s.NonNull++
			if x, ok := v.Float(); ok {
				numCnt++
				n++
				if x < s.Min {
					s.Min = x
				}
				if x > s.Max {
					s.Max = x
				}
				delta := x - mean
				mean += delta / float64(n)
				m2 += delta * (x - mean)
				continue
			}
			if str, ok := v.Text(); ok && len(cats) <= 10000 {
				cats[str]++
			}
		}
		switch {
		case numCnt > 0 && numCnt >= len(cats):
			s.Kind = "numeric"
			s.Mean = mean
			if n > 1 {
				s.Std = math.Sqrt(m2 / float64(n-1))
			}
		case len(cats) > 0:
			s.Kind = "categorical"
			s.Min, s.Max = 0, 0
			s.Unique = len(cats)
			s.TopValues = topCategories(cats, 8)
		default:
			s.Kind = "empty"
			s.Min, s.Max = 0, 0
		}
		out = append(out, s)
	}
	return out
}

// CountBy tallies the non-absent rendered values of one column, most
// frequent first, ties broken by value.
func CountBy(t frame.Table, col string) ([]CategoryCount, error) {
	if _, ok := t.ColumnIndex(col); !ok {
		return nil, &frame.UnknownColumnError{Column: col}
	}
	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		v, _ := t.Cell(i, col)
		if v.IsAbsent() {
			continue
		}
		counts[v.Render()]++
	}
	return topCategories(counts, 0), nil
}

func topCategories(cats map[string]int, limit int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if limit > 0 && len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

// WriteSchema renders the per-column profile in markdown.
func WriteSchema(b *strings.Builder, sums []ColumnSummary) {
	b.WriteString("[SCHEMA]\n")
	for _, c := range sums {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", kv.Value, kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
}
