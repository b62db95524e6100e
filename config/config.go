// Package config loads the engine's recognized-options record (spec.md
// §6: tenant_id, view_parameter_values, max_inferred_types, max_cte_depth)
// plus a handful of engine-level settings, from layered YAML + environment
// variables. Grounded on wayli-app-fluxbase's internal/config.Load, adapted
// to a non-global viper instance so repeated loads in one process (as in
// tests, or a CLI that re-plans per request) don't leak state across calls.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the engine's recognized-options record plus engine-level
// settings not named by spec.md §6 but needed to run it (the default
// schema to plan against, and the target SQL dialect sqlgen renders for).
type Config struct {
	SchemaName string `mapstructure:"schema_name"`
	Dialect    string `mapstructure:"dialect"`

	TenantID    string `mapstructure:"tenant_id"`
	HasTenantID bool   `mapstructure:"-"`

	ViewParameterValues map[string]string `mapstructure:"view_parameter_values"`

	MaxInferredTypes int `mapstructure:"max_inferred_types"`

	// MaxCTEDepth bounds variable-length-path recursion depth; spec.md §6
	// default is 100.
	MaxCTEDepth int `mapstructure:"max_cte_depth"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schema_name", "default")
	v.SetDefault("dialect", "clickhouse")
	v.SetDefault("max_inferred_types", 0)
	v.SetDefault("max_cte_depth", 100)
	v.SetDefault("view_parameter_values", map[string]string{})
}

// Load reads configuration from the first of configPaths that exists,
// layered under defaults and CYPHERSQL_-prefixed environment variables
// (env always wins over file, file always wins over the defaults above).
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("CYPHERSQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, path := range configPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		break
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.HasTenantID = cfg.TenantID != ""
	if cfg.MaxCTEDepth <= 0 {
		cfg.MaxCTEDepth = 100
	}
	if cfg.ViewParameterValues == nil {
		cfg.ViewParameterValues = map[string]string{}
	}
	return &cfg, nil
}

// DefaultConfigPaths is the search order cmd/cyphersql uses when no
// --config flag is given.
func DefaultConfigPaths() []string {
	return []string{
		"./cyphersql.yaml",
		"./cyphersql.yml",
		"./config/cyphersql.yaml",
		"/etc/cyphersql/cyphersql.yaml",
	}
}
