package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/config"
	"github.com/KaramelBytes/dataloom-cli/internal/frame"
	"github.com/KaramelBytes/dataloom-cli/internal/model"
	"github.com/KaramelBytes/dataloom-cli/internal/parser"
)

// Series column names produced by the pandemic pipeline.
const (
	colConfirmed = "Confirmed"
	colDeaths    = "Deaths"
	colRecovered = "Recovered"
)

// PandemicPipeline runs the pandemic report: melt the three wide
// time-series tables, sum province duplicates per country-date, outer-join
// the series, summarize trends, and fit a model of deaths.
type PandemicPipeline struct {
	Config    config.Pandemic
	OutputDir string
	// Fitter defaults to ordinary least squares.
	Fitter model.Fitter
}

// Run executes the pipeline and writes the markdown report.
func (p PandemicPipeline) Run() (*RunResult, error) {
	started := time.Now()
	res := &RunResult{RunID: newRunID(), StartedAt: started}

	fitter := p.Fitter
	if fitter == nil {
		fitter = model.LeastSquares{}
	}

	sources := []struct {
		path  string
		value string
	}{
		{p.Config.ConfirmedPath, colConfirmed},
		{p.Config.DeathsPath, colDeaths},
		{p.Config.RecoveredPath, colRecovered},
	}
	key := []string{p.Config.CountryColumn, frame.DateColumn}

	series := make([]frame.Table, 0, len(sources))
	for _, src := range sources {
		wide, err := parser.ReadTable(src.path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", src.value, err)
		}
		res.RowsIn += wide.Len()
		long, err := frame.Melt(wide, p.Config.FixedColumns, p.Config.DateLayout, src.value)
		if err != nil {
			return nil, fmt.Errorf("melt %s: %w", src.value, err)
		}
		long, err = long.Select(p.Config.CountryColumn, frame.DateColumn, src.value)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", src.value, err)
		}
		// Province rows for the same country collapse into one record.
		long, err = frame.Reconcile(long, key, map[string]frame.AggregationRule{src.value: frame.Sum()})
		if err != nil {
			return nil, fmt.Errorf("reconcile %s: %w", src.value, err)
		}
		series = append(series, long)
	}

	merged, err := frame.Merge(series, key)
	if err != nil {
		return nil, fmt.Errorf("merge series: %w", err)
	}
	res.RowsOut = merged.Len()

	// World totals per date across all countries.
	world, err := frame.Reconcile(merged, []string{frame.DateColumn}, map[string]frame.AggregationRule{
		colConfirmed: frame.Sum(),
		colDeaths:    frame.Sum(),
		colRecovered: frame.Sum(),
	})
	if err != nil {
		return nil, fmt.Errorf("world totals: %w", err)
	}
	world, err = world.Sorted(frame.DateColumn)
	if err != nil {
		return nil, err
	}
	if world.Len() == 0 {
		return nil, fmt.Errorf("no observations after merge")
	}

	// Latest per-country snapshot: the series are cumulative, so the last
	// date carries the totals.
	lastDate, _ := world.Cell(world.Len()-1, frame.DateColumn)
	snapshot, _, err := frame.Filter(merged, map[string][]string{frame.DateColumn: {lastDate.Render()}})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	snapshot = snapshot.WithColumn("MortalityRate", func(r frame.Row) frame.Value {
		d, _ := r.Value(colDeaths)
		c, _ := r.Value(colConfirmed)
		df, dok := d.Float()
		cf, cok := c.Float()
		if !dok || !cok || cf == 0 {
			return frame.Absent()
		}
		return frame.Num(df / cf)
	})

	fitted, fitN, fitErr := fitDeaths(snapshot, fitter)

	md := p.render(res.RunID, world, snapshot, lastDate.Render(), fitted, fitN, fitErr)
	if err := ensureOutputDir(p.OutputDir); err != nil {
		return nil, err
	}
	res.ReportPath = filepath.Join(p.OutputDir, "pandemic_report.md")
	if err := writeMarkdown(res.ReportPath, md); err != nil {
		return nil, err
	}
	res.Duration = time.Since(started)
	return res, nil
}

// fitDeaths regresses deaths on confirmed and recovered over the
// country snapshot, skipping countries with any absent value. The fit is a
// data-quality probe, not a forecast; a failure is reported, not fatal.
func fitDeaths(snapshot frame.Table, fitter model.Fitter) (*model.LinearModel, int, error) {
	var features [][]float64
	var target []float64
	for i := 0; i < snapshot.Len(); i++ {
		c, _ := snapshot.Cell(i, colConfirmed)
		d, _ := snapshot.Cell(i, colDeaths)
		r, _ := snapshot.Cell(i, colRecovered)
		cf, cok := c.Float()
		df, dok := d.Float()
		rf, rok := r.Float()
		if !cok || !dok || !rok {
			continue
		}
		features = append(features, []float64{cf, rf})
		target = append(target, df)
	}
	m, err := fitter.Fit(features, target)
	if err != nil {
		return nil, len(target), err
	}
	lm, ok := m.(*model.LinearModel)
	if !ok {
		return nil, len(target), fmt.Errorf("fitter returned unsupported model type %T", m)
	}
	return lm, len(target), nil
}

func (p PandemicPipeline) render(runID string, world, snapshot frame.Table, lastDate string, fitted *model.LinearModel, fitN int, fitErr error) string {
	var b strings.Builder
	b.WriteString("[PANDEMIC REPORT]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", runID))
	firstDate, _ := world.Cell(0, frame.DateColumn)
	b.WriteString(fmt.Sprintf("Observations: %s to %s (%d days, %d country-date records)\n\n",
		firstDate.Render(), lastDate, world.Len(), snapshot.Len()))

	b.WriteString("[WORLD TOTALS]\n")
	last := world.Len() - 1
	for _, col := range []string{colConfirmed, colDeaths, colRecovered} {
		v, _ := world.Cell(last, col)
		if f, ok := v.Float(); ok {
			b.WriteString(fmt.Sprintf("- %s: %.0f\n", col, f))
		} else {
			b.WriteString(fmt.Sprintf("- %s: (absent)\n", col))
		}
	}
	b.WriteString("\n")

	b.WriteString("[TOP COUNTRIES BY DEATHS]\n")
	type row struct {
		country string
		deaths  float64
		rate    frame.Value
	}
	var rows []row
	for i := 0; i < snapshot.Len(); i++ {
		c, _ := snapshot.Cell(i, p.Config.CountryColumn)
		d, _ := snapshot.Cell(i, colDeaths)
		r, _ := snapshot.Cell(i, "MortalityRate")
		if f, ok := d.Float(); ok {
			rows = append(rows, row{country: c.Render(), deaths: f, rate: r})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].deaths == rows[j].deaths {
			return rows[i].country < rows[j].country
		}
		return rows[i].deaths > rows[j].deaths
	})
	if len(rows) > 10 {
		rows = rows[:10]
	}
	for _, r := range rows {
		if f, ok := r.rate.Float(); ok {
			b.WriteString(fmt.Sprintf("- %s: %.0f deaths (mortality %.2f%%)\n", r.country, r.deaths, 100*f))
		} else {
			b.WriteString(fmt.Sprintf("- %s: %.0f deaths\n", r.country, r.deaths))
		}
	}
	b.WriteString("\n")

	b.WriteString("[MODEL: deaths ~ confirmed + recovered]\n")
	if fitErr != nil {
		b.WriteString(fmt.Sprintf("- fit failed over %d countries: %v\n", fitN, fitErr))
	} else {
		b.WriteString(fmt.Sprintf("- countries fitted: %d\n", fitN))
		b.WriteString(fmt.Sprintf("- intercept: %.4g\n", fitted.Intercept))
		b.WriteString(fmt.Sprintf("- confirmed coefficient: %.4g\n", fitted.Coefficients[0]))
		b.WriteString(fmt.Sprintf("- recovered coefficient: %.4g\n", fitted.Coefficients[1]))
		b.WriteString(fmt.Sprintf("- R^2: %.4f\n", fitted.R2()))
	}
	return b.String()
}
