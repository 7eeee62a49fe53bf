package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataloom-cli/internal/config"
)

func incidentsConfig(t *testing.T, csv string) (config.Incidents, string) {
	t.Helper()
	dir := t.TempDir()
	return config.Incidents{
		SourcePath: writeFixture(t, dir, "incidents.csv", csv),
		DateColumn: "OCCUR_DATE",
		TimeColumn: "OCCUR_TIME",
		DateLayout: "01/02/2006",
		TimeLayout: "15:04:05",
		Sentinels:  config.DefaultIncidentSentinels(),
		Domains:    config.DefaultIncidentDomains(),
	}, dir
}

const incidentsCSV = "INCIDENT_KEY,OCCUR_DATE,OCCUR_TIME,BORO,PERP_AGE_GROUP,PERP_SEX,VIC_AGE_GROUP,VIC_SEX\n" +
	"1,01/05/2020,22:15:00,QUEENS,25-44,M,18-24,M\n" +
	"2,02/14/2020,01:30:00,BRONX,(null),U,25-44,F\n" + // sentinels -> absent, row kept
	"3,03/01/2020,13:00:00,BROOKLYN,1020,M,45-64,M\n" + // anomalous age group -> removed
	"4,03/02/2020,,QUEENS,UNKNOWN,M,<18,F\n" // absent time, sentinel age

func TestIncidentsPipeline(t *testing.T) {
	cfg, dir := incidentsConfig(t, incidentsCSV)
	out := filepath.Join(dir, "reports")
	res, err := IncidentsPipeline{Config: cfg, OutputDir: out}.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RowsIn != 4 {
		t.Errorf("RowsIn = %d, want 4", res.RowsIn)
	}
	// Row 3 is anomalous; sentinel rows are kept with absent cells.
	if res.RowsOut != 3 || res.Removed != 1 {
		t.Errorf("kept/removed = %d/%d, want 3/1", res.RowsOut, res.Removed)
	}
	if res.AuditPath == "" {
		t.Fatal("expected an audit file for removed rows")
	}
	audit, err := os.ReadFile(res.AuditPath)
	if err != nil {
		t.Fatalf("read audit: %v", err)
	}
	if !strings.Contains(string(audit), "1020") {
		t.Errorf("audit file missing the anomalous value:\n%s", audit)
	}

	b, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	if !strings.Contains(md, "QUEENS: 2") {
		t.Errorf("report missing borough counts:\n%s", md)
	}
	if !strings.Contains(md, "INCIDENTS BY YEAR") {
		t.Errorf("report missing temporal section:\n%s", md)
	}
	// The "(null)"/"U"/"UNKNOWN" tokens must not surface as categories.
	if strings.Contains(md, "(null)") || strings.Contains(md, "UNKNOWN") {
		t.Errorf("sentinel tokens leaked into summaries:\n%s", md)
	}
}

func TestIncidentsPipelineBadDate(t *testing.T) {
	csv := "INCIDENT_KEY,OCCUR_DATE,OCCUR_TIME,BORO,PERP_AGE_GROUP,PERP_SEX,VIC_AGE_GROUP,VIC_SEX\n" +
		"1,not-a-date,22:15:00,QUEENS,25-44,M,18-24,M\n"
	cfg, dir := incidentsConfig(t, csv)
	_, err := IncidentsPipeline{Config: cfg, OutputDir: dir}.Run()
	if err == nil || !strings.Contains(err.Error(), "OCCUR_DATE") {
		t.Fatalf("err = %v, want ingestion error naming OCCUR_DATE", err)
	}
}

func TestIncidentsPipelineUnknownSentinelColumn(t *testing.T) {
	cfg, dir := incidentsConfig(t, incidentsCSV)
	cfg.Sentinels = map[string][]string{"NO_SUCH_COLUMN": {"x"}}
	_, err := IncidentsPipeline{Config: cfg, OutputDir: dir}.Run()
	if err == nil || !strings.Contains(err.Error(), "NO_SUCH_COLUMN") {
		t.Fatalf("err = %v, want unknown column error", err)
	}
}
