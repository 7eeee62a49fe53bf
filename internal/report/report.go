package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dataloom-cli/internal/frame"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

// RunResult describes one completed pipeline run for the caller to print
// or log.
type RunResult struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	RowsIn     int
	RowsOut    int
	Removed    int
	ReportPath string
	AuditPath  string
}

func newRunID() string { return uuid.NewString() }

// writeTableCSV writes a frame.Table as CSV via a temp-file rename.
// Absent cells render as empty fields.
func writeTableCSV(t frame.Table, path string) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cols := t.Columns()
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, col := range cols {
			v, _ := t.Cell(i, col)
			rec[j] = v.Render()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// writeMarkdown persists a rendered report atomically.
func writeMarkdown(path, md string) error {
	return utils.SafeWriteFile(path, []byte(md))
}

// ensureOutputDir creates the report output directory if needed.
func ensureOutputDir(dir string) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
