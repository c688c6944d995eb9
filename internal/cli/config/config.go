// Package config loads the project configuration from reproconv.yml. The
// core conversion packages never read configuration themselves; everything
// they need is passed in explicitly.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/reproforge/reproconv/convert/adapters"
)

// Config is the reproconv project configuration.
type Config struct {
	Protocol ProtocolConfig    `mapstructure:"protocol"`
	Source   SourceConfig      `mapstructure:"source"`
	Columns  map[string]string `mapstructure:"columns"`
	Output   OutputConfig      `mapstructure:"output"`
}

// ProtocolConfig is the protocol identity metadata stamped into generated
// documents.
type ProtocolConfig struct {
	Name        string `mapstructure:"name"`
	DisplayName string `mapstructure:"display_name"`
	Description string `mapstructure:"description"`
	Version     string `mapstructure:"version"`
}

// SourceConfig selects the input dictionary dialect and, optionally, a
// non-comma field separator ("tab" or any single character).
type SourceConfig struct {
	Dialect   string `mapstructure:"dialect"`
	Delimiter string `mapstructure:"delimiter"`
}

// OutputConfig controls where generated bundles are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// Dialect names.
const (
	DialectREDCap = "redcap"
	DialectNBDC   = "nbdc"
)

// Load reads reproconv.yml (or .yaml) from the working directory. A missing
// file yields the defaults; a malformed file is an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("source.dialect", DialectREDCap)
	v.SetDefault("output.dir", ".")
	v.SetDefault("protocol.version", "1.0.0")

	v.SetConfigName("reproconv")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Source.Dialect {
	case DialectREDCap, DialectNBDC:
	default:
		return fmt.Errorf("unknown source dialect %q (want %q or %q)",
			cfg.Source.Dialect, DialectREDCap, DialectNBDC)
	}
	if _, err := parseDelimiter(cfg.Source.Delimiter); err != nil {
		return err
	}
	for role := range cfg.Columns {
		if !knownRoles[adapters.Role(role)] {
			return fmt.Errorf("unknown column role %q in columns mapping", role)
		}
	}
	return nil
}

// Delim returns the configured field separator as a rune, or 0 when the
// default comma applies. Load has already validated the value.
func (c *Config) Delim() rune {
	d, _ := parseDelimiter(c.Source.Delimiter)
	return d
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",", "comma":
		return 0, nil
	case "tab", "\t":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("source delimiter %q must be a single character or \"tab\"", s)
	}
	return runes[0], nil
}

var knownRoles = map[adapters.Role]bool{
	adapters.RoleFieldName:  true,
	adapters.RoleActivity:   true,
	adapters.RolePreamble:   true,
	adapters.RoleFieldType:  true,
	adapters.RoleLabel:      true,
	adapters.RoleChoices:    true,
	adapters.RoleNote:       true,
	adapters.RoleValidation: true,
	adapters.RoleMinValue:   true,
	adapters.RoleMaxValue:   true,
	adapters.RoleBranching:  true,
	adapters.RoleRequired:   true,
}

// ColumnMap builds the adapter column mapping: the dialect's stock headers
// overridden by any explicit columns entries.
func (c *Config) ColumnMap() adapters.ColumnMap {
	var cols adapters.ColumnMap
	if c.Source.Dialect == DialectNBDC {
		cols = adapters.DefaultNBDCColumns()
	} else {
		cols = adapters.DefaultREDCapColumns()
	}
	for role, name := range c.Columns {
		cols[adapters.Role(role)] = name
	}
	return cols
}
