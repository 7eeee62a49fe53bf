package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	Pandemic  Pandemic  `mapstructure:"pandemic" yaml:"pandemic"`
	Incidents Incidents `mapstructure:"incidents" yaml:"incidents"`
}

// Pandemic configures the pandemic time-series pipeline: the three wide
// CSV sources and how to melt them.
type Pandemic struct {
	ConfirmedPath string `mapstructure:"confirmed_path" yaml:"confirmed_path"`
	DeathsPath    string `mapstructure:"deaths_path" yaml:"deaths_path"`
	RecoveredPath string `mapstructure:"recovered_path" yaml:"recovered_path"`
	// Columns that identify the entity; every other column must be a date.
	FixedColumns []string `mapstructure:"fixed_columns" yaml:"fixed_columns"`
	// Column holding the country name within FixedColumns.
	CountryColumn string `mapstructure:"country_column" yaml:"country_column"`
	// Layout of the wide date column names, Go reference-time form.
	DateLayout string `mapstructure:"date_layout" yaml:"date_layout"`
}

// Incidents configures the incident-report pipeline: source file, the
// date/time columns, per-column sentinel tokens and allowed domains.
type Incidents struct {
	SourcePath string `mapstructure:"source_path" yaml:"source_path"`
	DateColumn string `mapstructure:"date_column" yaml:"date_column"`
	TimeColumn string `mapstructure:"time_column" yaml:"time_column"`
	DateLayout string `mapstructure:"date_layout" yaml:"date_layout"`
	TimeLayout string `mapstructure:"time_layout" yaml:"time_layout"`
	// Raw tokens that mean "absent", per column. Matching is exact and
	// case-sensitive; the same token may be a sentinel in one column and a
	// legitimate category in another.
	Sentinels map[string][]string `mapstructure:"sentinels" yaml:"sentinels"`
	// Permitted category values, per column. Rows holding other non-absent
	// values are excluded and written to the audit file.
	Domains map[string][]string `mapstructure:"domains" yaml:"domains"`
}

// DefaultIncidentSentinels covers the conventions seen in the municipal
// shooting-incident extract: literal "(null)" strings plus per-column
// unknown markers. "U" is only a sentinel in the sex columns, where it is
// not a category.
func DefaultIncidentSentinels() map[string][]string {
	return map[string][]string{
		"PERP_AGE_GROUP": {"(null)", "UNKNOWN"},
		"PERP_SEX":       {"(null)", "U"},
		"PERP_RACE":      {"(null)", "UNKNOWN"},
		"VIC_AGE_GROUP":  {"UNKNOWN"},
		"VIC_SEX":        {"U"},
		"VIC_RACE":       {"UNKNOWN"},
	}
}

// DefaultIncidentDomains lists the expected category values for the
// constrained columns. Out-of-domain values (e.g. the "1020" age group)
// are data-entry anomalies.
func DefaultIncidentDomains() map[string][]string {
	ages := []string{"<18", "18-24", "25-44", "45-64", "65+"}
	return map[string][]string{
		"PERP_AGE_GROUP": ages,
		"VIC_AGE_GROUP":  ages,
		"PERP_SEX":       {"M", "F"},
		"VIC_SEX":        {"M", "F"},
		"BORO":           {"BRONX", "BROOKLYN", "MANHATTAN", "QUEENS", "STATEN ISLAND"},
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.dataloom/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATALOOM")
	v.AutomaticEnv()

	// Defaults cover the two shipped datasets end to end, so the tool runs
	// with nothing but source-path flags.
	v.SetDefault("output_dir", "reports")
	v.SetDefault("pandemic.confirmed_path", "data/time_series_covid19_confirmed_global.csv")
	v.SetDefault("pandemic.deaths_path", "data/time_series_covid19_deaths_global.csv")
	v.SetDefault("pandemic.recovered_path", "data/time_series_covid19_recovered_global.csv")
	v.SetDefault("pandemic.fixed_columns", []string{"Province/State", "Country/Region", "Lat", "Long"})
	v.SetDefault("pandemic.country_column", "Country/Region")
	v.SetDefault("pandemic.date_layout", "1/2/06")
	v.SetDefault("incidents.source_path", "data/shooting_incidents.csv")
	v.SetDefault("incidents.date_column", "OCCUR_DATE")
	v.SetDefault("incidents.time_column", "OCCUR_TIME")
	v.SetDefault("incidents.date_layout", "01/02/2006")
	v.SetDefault("incidents.time_layout", "15:04:05")
	v.SetDefault("incidents.sentinels", DefaultIncidentSentinels())
	v.SetDefault("incidents.domains", DefaultIncidentDomains())

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataloom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := reloadColumnMaps(&c, v.ConfigFileUsed()); err != nil {
		return nil, err
	}
	return &c, nil
}

// reloadColumnMaps re-reads the sentinel and domain maps straight from the
// YAML file. Viper lowercases every map key it reads from a config file,
// but column names like PERP_SEX are case-significant.
func reloadColumnMaps(c *Global, path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var raw struct {
		Incidents struct {
			Sentinels map[string][]string `yaml:"sentinels"`
			Domains   map[string][]string `yaml:"domains"`
		} `yaml:"incidents"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("parse config maps: %w", err)
	}
	if raw.Incidents.Sentinels != nil {
		c.Incidents.Sentinels = raw.Incidents.Sentinels
	}
	if raw.Incidents.Domains != nil {
		c.Incidents.Domains = raw.Incidents.Domains
	}
	return nil
}
