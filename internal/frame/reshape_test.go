package frame

import (
	"errors"
	"testing"
)

func wideFixture() Table {
	t := NewTable("Country", "1/22/20", "1/23/20", "1/24/20")
	t = t.AppendRow(Str("France"), Num(1), Num(2), Num(3))
	t = t.AppendRow(Str("Italy"), Num(0), Absent(), Num(5))
	return t
}

func TestMeltCardinality(t *testing.T) {
	wide := wideFixture()
	long, err := Melt(wide, []string{"Country"}, "1/2/06", "Confirmed")
	if err != nil {
		t.Fatalf("Melt: %v", err)
	}
	// R rows x C date columns
	if got, want := long.Len(), 2*3; got != want {
		t.Fatalf("got %d records, want %d", got, want)
	}
	cols := long.Columns()
	want := []string{"Country", "Date", "Confirmed"}
	if len(cols) != len(want) {
		t.Fatalf("columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("columns = %v, want %v", cols, want)
		}
	}
	// Entity keys come from input rows; dates are ISO; absent survives.
	v, _ := long.Cell(0, "Country")
	if s, _ := v.Text(); s != "France" {
		t.Errorf("first record country = %q, want France", s)
	}
	v, _ = long.Cell(0, "Date")
	if s, _ := v.Text(); s != "2020-01-22" {
		t.Errorf("first record date = %q, want 2020-01-22", s)
	}
	v, _ = long.Cell(4, "Confirmed")
	if !v.IsAbsent() {
		t.Errorf("Italy 1/23 should stay absent, got %v", v)
	}
}

func TestMeltMalformedDateColumn(t *testing.T) {
	wide := NewTable("Country", "1/22/20", "Notes")
	wide = wide.AppendRow(Str("France"), Num(1), Str("x"))
	_, err := Melt(wide, []string{"Country"}, "1/2/06", "Confirmed")
	var mde *MalformedDateColumnError
	if !errors.As(err, &mde) {
		t.Fatalf("err = %v, want MalformedDateColumnError", err)
	}
	if mde.Column != "Notes" {
		t.Errorf("offending column = %q, want Notes", mde.Column)
	}
}

func TestMeltUnknownFixedColumn(t *testing.T) {
	wide := wideFixture()
	_, err := Melt(wide, []string{"Region"}, "1/2/06", "Confirmed")
	var uce *UnknownColumnError
	if !errors.As(err, &uce) {
		t.Fatalf("err = %v, want UnknownColumnError", err)
	}
	if uce.Column != "Region" {
		t.Errorf("column = %q, want Region", uce.Column)
	}
}

func TestMeltPurity(t *testing.T) {
	wide := wideFixture()
	before := wide.Len()
	if _, err := Melt(wide, []string{"Country"}, "1/2/06", "Confirmed"); err != nil {
		t.Fatalf("Melt: %v", err)
	}
	if wide.Len() != before {
		t.Fatalf("input mutated: %d rows, had %d", wide.Len(), before)
	}
}
