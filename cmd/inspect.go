package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/parser"
	"github.com/KaramelBytes/dataloom-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	insOutputPath string
	insSheetName  string
	insDelimiter  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Profile a CSV/TSV/XLSX table: column kinds, missing values, top categories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		lower := strings.ToLower(path)
		var md string
		if strings.HasSuffix(lower, ".xlsx") {
			t, err := parser.ReadXLSX(path, insSheetName)
			if err != nil {
				return err
			}
			md = renderInspect(path, t.Len(), report.Summarize(t))
		} else {
			var delim rune
			switch insDelimiter {
			case "", ",":
			case "\t", "tab":
				delim = '\t'
			case ";":
				delim = ';'
			default:
				return fmt.Errorf("unsupported --delimiter: %s", insDelimiter)
			}
			t, err := parser.ReadCSV(path, delim)
			if err != nil {
				return err
			}
			md = renderInspect(path, t.Len(), report.Summarize(t))
		}

		if insOutputPath != "" {
			if err := os.WriteFile(insOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote profile to %s\n", insOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func renderInspect(path string, rows int, sums []report.ColumnSummary) string {
	var b strings.Builder
	b.WriteString("[TABLE PROFILE]\n")
	b.WriteString(fmt.Sprintf("File: %s\nRows: %d\nColumns: %d\n\n", path, rows, len(sums)))
	report.WriteSchema(&b, sums)
	return b.String()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insOutputPath, "output", "", "optional path to write the profile (Markdown)")
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	inspectCmd.Flags().StringVar(&insSheetName, "sheet-name", "", "XLSX: sheet name to profile (default first sheet)")
}
