package cmd

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/dataloom-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	panConfirmed string
	panDeaths    string
	panRecovered string
)

var pandemicCmd = &cobra.Command{
	Use:   "pandemic",
	Short: "Build the pandemic time-series report from the three wide CSVs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		pcfg := c.Pandemic
		if panConfirmed != "" {
			pcfg.ConfirmedPath = panConfirmed
		}
		if panDeaths != "" {
			pcfg.DeathsPath = panDeaths
		}
		if panRecovered != "" {
			pcfg.RecoveredPath = panRecovered
		}
		res, err := report.PandemicPipeline{Config: pcfg, OutputDir: c.OutputDir}.Run()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Pandemic report written to %s\n", res.ReportPath)
		fmt.Printf("  run %s: %d source rows -> %d country-date records in %s\n",
			res.RunID, res.RowsIn, res.RowsOut, res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pandemicCmd)
	pandemicCmd.Flags().StringVar(&panConfirmed, "confirmed", "", "path to the wide confirmed-cases CSV (overrides config)")
	pandemicCmd.Flags().StringVar(&panDeaths, "deaths", "", "path to the wide deaths CSV (overrides config)")
	pandemicCmd.Flags().StringVar(&panRecovered, "recovered", "", "path to the wide recovered CSV (overrides config)")
}
