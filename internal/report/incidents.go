package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/config"
	"github.com/KaramelBytes/dataloom-cli/internal/frame"
	"github.com/KaramelBytes/dataloom-cli/internal/parser"
)

// Derived temporal columns added before filtering.
const (
	colYear    = "YEAR"
	colMonth   = "MONTH"
	colHour    = "HOUR"
	colWeekday = "WEEKDAY"
)

// IncidentsPipeline runs the incident report: derive temporal columns,
// normalize per-column missing-value sentinels, remove rows with
// out-of-domain categories (keeping them for audit), and summarize
// temporal and demographic patterns.
type IncidentsPipeline struct {
	Config    config.Incidents
	OutputDir string
}

// Run executes the pipeline, writing the markdown report and the
// removed-rows audit CSV.
func (p IncidentsPipeline) Run() (*RunResult, error) {
	started := time.Now()
	res := &RunResult{RunID: newRunID(), StartedAt: started}

	t, err := parser.ReadTable(p.Config.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("load incidents: %w", err)
	}
	res.RowsIn = t.Len()

	t, err = p.deriveTemporal(t)
	if err != nil {
		return nil, err
	}
	t, err = frame.Normalize(t, p.Config.Sentinels)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	kept, removed, err := frame.Filter(t, p.Config.Domains)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	res.RowsOut = kept.Len()
	res.Removed = removed.Len()

	if err := ensureOutputDir(p.OutputDir); err != nil {
		return nil, err
	}
	if removed.Len() > 0 {
		res.AuditPath = filepath.Join(p.OutputDir, fmt.Sprintf("incidents_removed_%s.csv", res.RunID))
		if err := writeTableCSV(removed, res.AuditPath); err != nil {
			return nil, fmt.Errorf("write audit: %w", err)
		}
	}

	md, err := p.render(res, kept)
	if err != nil {
		return nil, err
	}
	res.ReportPath = filepath.Join(p.OutputDir, "incidents_report.md")
	if err := writeMarkdown(res.ReportPath, md); err != nil {
		return nil, err
	}
	res.Duration = time.Since(started)
	return res, nil
}

// deriveTemporal parses the date and time columns into YEAR, MONTH, HOUR
// and WEEKDAY. A present but unparseable value is an ingestion error and
// aborts the run; an absent value just yields absent derived cells.
func (p IncidentsPipeline) deriveTemporal(t frame.Table) (frame.Table, error) {
	for _, col := range []string{p.Config.DateColumn, p.Config.TimeColumn} {
		if _, ok := t.ColumnIndex(col); !ok {
			return frame.Table{}, &frame.UnknownColumnError{Column: col}
		}
	}
	years := make([]frame.Value, t.Len())
	months := make([]frame.Value, t.Len())
	weekdays := make([]frame.Value, t.Len())
	hours := make([]frame.Value, t.Len())
	for i := 0; i < t.Len(); i++ {
		d, _ := t.Cell(i, p.Config.DateColumn)
		if !d.IsAbsent() {
			parsed, err := time.Parse(p.Config.DateLayout, d.Render())
			if err != nil {
				return frame.Table{}, fmt.Errorf("row %d: bad %s %q: %w", i+1, p.Config.DateColumn, d.Render(), err)
			}
			years[i] = frame.Num(float64(parsed.Year()))
			months[i] = frame.Num(float64(parsed.Month()))
			weekdays[i] = frame.Str(parsed.Weekday().String())
		}
		tm, _ := t.Cell(i, p.Config.TimeColumn)
		if !tm.IsAbsent() {
			parsed, err := time.Parse(p.Config.TimeLayout, tm.Render())
			if err != nil {
				return frame.Table{}, fmt.Errorf("row %d: bad %s %q: %w", i+1, p.Config.TimeColumn, tm.Render(), err)
			}
			hours[i] = frame.Num(float64(parsed.Hour()))
		}
	}
	var err error
	for _, c := range []struct {
		name string
		vals []frame.Value
	}{
		{colYear, years}, {colMonth, months}, {colHour, hours}, {colWeekday, weekdays},
	} {
		if t, err = t.WithColumnValues(c.name, c.vals); err != nil {
			return frame.Table{}, err
		}
	}
	return t, nil
}

func (p IncidentsPipeline) render(res *RunResult, kept frame.Table) (string, error) {
	var b strings.Builder
	b.WriteString("[INCIDENT REPORT]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", res.RunID))
	b.WriteString(fmt.Sprintf("Rows: %d loaded, %d kept, %d removed as anomalous\n", res.RowsIn, res.RowsOut, res.Removed))
	if res.AuditPath != "" {
		b.WriteString(fmt.Sprintf("Removed rows: %s\n", filepath.Base(res.AuditPath)))
	}
	b.WriteString("\n")

	WriteSchema(&b, Summarize(kept))

	sections := []struct {
		title string
		col   string
		limit int
	}{
		{"INCIDENTS BY BOROUGH", "BORO", 0},
		{"INCIDENTS BY YEAR", colYear, 0},
		{"INCIDENTS BY HOUR", colHour, 0},
		{"INCIDENTS BY WEEKDAY", colWeekday, 0},
		{"VICTIM AGE GROUPS", "VIC_AGE_GROUP", 0},
		{"PERPETRATOR AGE GROUPS", "PERP_AGE_GROUP", 0},
	}
	for _, s := range sections {
		if _, ok := kept.ColumnIndex(s.col); !ok {
			continue
		}
		counts, err := CountBy(kept, s.col)
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("\n[%s]\n", s.title))
		for i, c := range counts {
			if s.limit > 0 && i >= s.limit {
				break
			}
			b.WriteString(fmt.Sprintf("- %s: %d\n", c.Value, c.Count))
		}
	}
	return b.String(), nil
}
