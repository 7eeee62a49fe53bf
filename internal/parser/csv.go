package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/frame"
)

// ReadCSV loads a CSV/TSV file into a frame.Table. The first record is
// the header. If delimiter is 0 it is sniffed from the filename (.tsv
// means tab). Empty cells become absent; cells that parse as numbers
// become numeric; everything else stays text. Ragged rows are padded with
// absent cells so downstream transforms see a rectangular table.
func ReadCSV(path string, delimiter rune) (frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return frame.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	if delimiter == 0 {
		delimiter = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delimiter

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return frame.Table{}, fmt.Errorf("read header: empty file")
		}
		return frame.Table{}, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	var rows [][]frame.Value
	rowNum := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return frame.Table{}, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		rowNum++
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

// Cell converts one raw token into a frame.Value.
func Cell(raw string) frame.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return frame.Absent()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return frame.Num(f)
	}
	return frame.Str(s)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
