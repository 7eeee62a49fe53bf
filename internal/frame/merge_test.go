package frame

import (
	"errors"
	"testing"
)

func seriesTable(valueName string, rows map[string]Value) Table {
	t := NewTable("Country", valueName)
	for k, v := range rows {
		t = t.AppendRow(Str(k), v)
	}
	return t
}

func TestMergeAbsenceNotZero(t *testing.T) {
	confirmed := seriesTable("Confirmed", map[string]Value{"k1": Num(5)})
	deaths := seriesTable("Deaths", map[string]Value{})
	out, err := Merge([]Table{confirmed, deaths}, []string{"Country"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("got %d rows, want 1", out.Len())
	}
	v, _ := out.Cell(0, "Deaths")
	if !v.IsAbsent() {
		t.Fatalf("missing side = %v, want absent (never 0)", v)
	}
	v, _ = out.Cell(0, "Confirmed")
	if f, _ := v.Float(); f != 5 {
		t.Errorf("Confirmed = %v, want 5", v)
	}
}

func TestMergeKeyUnion(t *testing.T) {
	a := seriesTable("A", map[string]Value{"x": Num(1), "y": Num(2)})
	b := seriesTable("B", map[string]Value{"y": Num(3), "z": Num(4)})
	c := seriesTable("C", map[string]Value{"w": Num(5)})
	out, err := Merge([]Table{a, b, c}, []string{"Country"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out.Len() != 4 {
		t.Fatalf("got %d rows, want union of 4 keys", out.Len())
	}
	got := map[string]bool{}
	for i := 0; i < out.Len(); i++ {
		k, _ := out.Cell(i, "Country")
		got[k.Render()] = true
	}
	for _, k := range []string{"w", "x", "y", "z"} {
		if !got[k] {
			t.Errorf("key %q lost in merge", k)
		}
	}
	// Overlapping key keeps both sides.
	for i := 0; i < out.Len(); i++ {
		k, _ := out.Cell(i, "Country")
		if k.Render() != "y" {
			continue
		}
		va, _ := out.Cell(i, "A")
		vb, _ := out.Cell(i, "B")
		if f, _ := va.Float(); f != 2 {
			t.Errorf("y.A = %v, want 2", va)
		}
		if f, _ := vb.Float(); f != 3 {
			t.Errorf("y.B = %v, want 3", vb)
		}
	}
}

func TestMergeDuplicateKeyPrecondition(t *testing.T) {
	dup := NewTable("Country", "Confirmed")
	dup = dup.AppendRow(Str("France"), Num(1))
	dup = dup.AppendRow(Str("France"), Num(2))
	_, err := Merge([]Table{dup}, []string{"Country"})
	var dke *DuplicateKeyError
	if !errors.As(err, &dke) {
		t.Fatalf("err = %v, want DuplicateKeyError", err)
	}
	if dke.TableIndex != 0 {
		t.Errorf("table index = %d, want 0", dke.TableIndex)
	}
	if len(dke.KeyValues) != 1 || dke.KeyValues[0] != "France" {
		t.Errorf("key values = %v, want [France]", dke.KeyValues)
	}
}

func TestMergeValueColumnCollision(t *testing.T) {
	a := seriesTable("Cases", map[string]Value{"x": Num(1)})
	b := seriesTable("Cases", map[string]Value{"x": Num(2)})
	if _, err := Merge([]Table{a, b}, []string{"Country"}); err == nil {
		t.Fatal("expected error for colliding value column names")
	}
}
