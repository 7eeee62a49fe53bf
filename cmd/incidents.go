package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/report"
	"github.com/spf13/cobra"
)

var incSource string

var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "Build the incident report: clean sentinels, filter anomalies, summarize",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		icfg := c.Incidents
		if incSource != "" {
			icfg.SourcePath = incSource
		}
		res, err := report.IncidentsPipeline{Config: icfg, OutputDir: c.OutputDir}.Run()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Incident report written to %s\n", res.ReportPath)
		fmt.Printf("  run %s: %d rows loaded, %d kept, %d removed in %s\n",
			res.RunID, res.RowsIn, res.RowsOut, res.Removed, res.Duration.Round(time.Millisecond))
		if res.AuditPath != "" {
			fmt.Printf("  removed rows audited in %s\n", res.AuditPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(incidentsCmd)
	incidentsCmd.Flags().StringVar(&incSource, "source", "", "path to the incident CSV/XLSX (overrides config)")
}
