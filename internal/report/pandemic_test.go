package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/config"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pandemicFixtures(t *testing.T) (config.Pandemic, string) {
	t.Helper()
	dir := t.TempDir()
	header := "Province/State,Country/Region,Lat,Long,1/22/20,1/23/20\n"
	// France appears twice (province rows) to exercise reconciliation.
	confirmed := header +
		"Guadeloupe,France,16.2,-61.5,1,2\n" +
		",France,46.2,2.2,3,4\n" +
		",Italy,41.8,12.5,10,20\n"
	deaths := header +
		",France,46.2,2.2,0,1\n" +
		",Italy,41.8,12.5,1,2\n"
	// Recovered has no Italy rows: merge must yield absent, not zero.
	recovered := header +
		",France,46.2,2.2,0,1\n"
	cfg := config.Pandemic{
		ConfirmedPath: writeFixture(t, dir, "confirmed.csv", confirmed),
		DeathsPath:    writeFixture(t, dir, "deaths.csv", deaths),
		RecoveredPath: writeFixture(t, dir, "recovered.csv", recovered),
		FixedColumns:  []string{"Province/State", "Country/Region", "Lat", "Long"},
		CountryColumn: "Country/Region",
		DateLayout:    "1/2/06",
	}
	return cfg, dir
}

func TestPandemicPipeline(t *testing.T) {
	cfg, dir := pandemicFixtures(t)
	out := filepath.Join(dir, "reports")
	res, err := PandemicPipeline{Config: cfg, OutputDir: out}.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RunID == "" {
		t.Error("missing run ID")
	}
	// 2 countries x 2 dates after reconcile+merge.
	if res.RowsOut != 4 {
		t.Errorf("RowsOut = %d, want 4", res.RowsOut)
	}
	b, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	// World totals on the last date: confirmed 2+4+20, deaths 1+2.
	if !strings.Contains(md, "Confirmed: 26") {
		t.Errorf("report missing world confirmed total:\n%s", md)
	}
	if !strings.Contains(md, "Deaths: 3") {
		t.Errorf("report missing world deaths total:\n%s", md)
	}
	if !strings.Contains(md, "Italy") || !strings.Contains(md, "France") {
		t.Errorf("report missing country rankings:\n%s", md)
	}
}

func TestPandemicPipelineMalformedColumn(t *testing.T) {
	cfg, _ := pandemicFixtures(t)
	dir := t.TempDir()
	bad := "Province/State,Country/Region,Lat,Long,NotADate\n,France,0,0,1\n"
	cfg.ConfirmedPath = writeFixture(t, dir, "confirmed.csv", bad)
	_, err := PandemicPipeline{Config: cfg, OutputDir: dir}.Run()
	if err == nil || !strings.Contains(err.Error(), "NotADate") {
		t.Fatalf("err = %v, want malformed date column naming NotADate", err)
	}
}
