package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFixture(t, "sample.csv",
		"Country,1/22/20,1/23/20\n"+
			"France,1,2\n"+
			"Italy,,5\n"+
			"Spain,3\n") // ragged row

	tab, err := ReadCSV(path, 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tab.Len() != 3 {
		t.Fatalf("got %d rows, want 3", tab.Len())
	}
	v, _ := tab.Cell(0, "1/22/20")
	if f, ok := v.Float(); !ok || f != 1 {
		t.Errorf("France 1/22 = %v, want numeric 1", v)
	}
	v, _ = tab.Cell(1, "1/22/20")
	if !v.IsAbsent() {
		t.Errorf("empty cell = %v, want absent", v)
	}
	v, _ = tab.Cell(2, "1/23/20")
	if !v.IsAbsent() {
		t.Errorf("ragged cell = %v, want absent", v)
	}
	v, _ = tab.Cell(0, "Country")
	if s, _ := v.Text(); s != "France" {
		t.Errorf("Country = %v, want France", v)
	}
}

func TestReadCSVTabDelimited(t *testing.T) {
	path := writeFixture(t, "sample.tsv", "A\tB\n1\tx\n")
	tab, err := ReadCSV(path, 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	v, _ := tab.Cell(0, "B")
	if s, _ := v.Text(); s != "x" {
		t.Errorf("B = %v, want x", v)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := writeFixture(t, "empty.csv", "")
	if _, err := ReadCSV(path, 0); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestReadTableUnsupported(t *testing.T) {
	if _, err := ReadTable("data.parquet"); err == nil {
		t.Fatal("expected unsupported-format error")
	}
}

func TestCellConversion(t *testing.T) {
	cases := []struct {
		raw    string
		absent bool
		num    float64
		isNum  bool
	}{
		{"", true, 0, false},
		{"  ", true, 0, false},
		{"42", false, 42, true},
		{"-3.5", false, -3.5, true},
		{"(null)", false, 0, false},
		{"QUEENS", false, 0, false},
	}
	for _, c := range cases {
		v := Cell(c.raw)
		if v.IsAbsent() != c.absent {
			t.Errorf("Cell(%q).IsAbsent() = %v, want %v", c.raw, v.IsAbsent(), c.absent)
		}
		if f, ok := v.Float(); ok != c.isNum || (ok && f != c.num) {
			t.Errorf("Cell(%q) numeric = %v/%v, want %v/%v", c.raw, f, ok, c.num, c.isNum)
		}
	}
}
