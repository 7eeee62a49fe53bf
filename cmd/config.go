package cmd

import (
	"fmt"
	"sort"
	"strings"

	cfgpkg "github.com/KaramelBytes/dataloom-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		fmt.Println("pandemic:")
		fmt.Printf("  confirmed_path: %s\n", c.Pandemic.ConfirmedPath)
		fmt.Printf("  deaths_path: %s\n", c.Pandemic.DeathsPath)
		fmt.Printf("  recovered_path: %s\n", c.Pandemic.RecoveredPath)
		fmt.Printf("  fixed_columns: %s\n", strings.Join(c.Pandemic.FixedColumns, ", "))
		fmt.Printf("  country_column: %s\n", c.Pandemic.CountryColumn)
		fmt.Printf("  date_layout: %s\n", c.Pandemic.DateLayout)
		fmt.Println("incidents:")
		fmt.Printf("  source_path: %s\n", c.Incidents.SourcePath)
		fmt.Printf("  date_column: %s (%s)\n", c.Incidents.DateColumn, c.Incidents.DateLayout)
		fmt.Printf("  time_column: %s (%s)\n", c.Incidents.TimeColumn, c.Incidents.TimeLayout)
		fmt.Printf("  sentinel columns: %s\n", joinKeys(c.Incidents.Sentinels))
		fmt.Printf("  constrained columns: %s\n", joinKeys(c.Incidents.Domains))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "output_dir":
			cfg.OutputDir = val
		case "pandemic.confirmed_path":
			cfg.Pandemic.ConfirmedPath = val
		case "pandemic.deaths_path":
			cfg.Pandemic.DeathsPath = val
		case "pandemic.recovered_path":
			cfg.Pandemic.RecoveredPath = val
		case "pandemic.country_column":
			cfg.Pandemic.CountryColumn = val
		case "pandemic.date_layout":
			cfg.Pandemic.DateLayout = val
		case "pandemic.fixed_columns":
			cfg.Pandemic.FixedColumns = splitList(val)
		case "incidents.source_path":
			cfg.Incidents.SourcePath = val
		case "incidents.date_column":
			cfg.Incidents.DateColumn = val
		case "incidents.time_column":
			cfg.Incidents.TimeColumn = val
		case "incidents.date_layout":
			cfg.Incidents.DateLayout = val
		case "incidents.time_layout":
			cfg.Incidents.TimeLayout = val
		default:
			return fmt.Errorf("unknown key: %s (sentinels and domains are edited in the config file)", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to disk for editing",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Wrote default config; edit sentinels/domains there")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}

func joinKeys(m map[string][]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
