// Package config loads cosmic's runtime configuration from viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// EnvPrefix is the prefix for environment overrides, e.g. COSMIC_CATALOG_SEED.
const EnvPrefix = "COSMIC"

// CatalogConfig controls catalog generation.
type CatalogConfig struct {
	Count int   `mapstructure:"count"`
	Seed  int64 `mapstructure:"seed"`
}

// FieldConfig controls background field generation.
type FieldConfig struct {
	Count int   `mapstructure:"count"`
	Seed  int64 `mapstructure:"seed"`
}

// WeightsConfig holds the initial trust weights and the slider ceiling.
type WeightsConfig struct {
	Hubble float64 `mapstructure:"hubble"`
	Gaia   float64 `mapstructure:"gaia"`
	JWST   float64 `mapstructure:"jwst"`
	Max    float64 `mapstructure:"max"`
}

// Vector returns the initial weights as a catalog weight vector.
func (w WeightsConfig) Vector() catalog.Weights {
	return catalog.Weights{catalog.Hubble: w.Hubble, catalog.Gaia: w.Gaia, catalog.JWST: w.JWST}
}

// ServeConfig holds HTTP API settings.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// MCPConfig holds settings for the MCP tool server.
type MCPConfig struct {
	Port int `mapstructure:"port"`
}

// StoreConfig locates the SQLite snapshot.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig locates the JSONL event file. An empty path disables it.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Config holds all runtime configuration for a cosmic session.
// Values are populated from .cosmic.yaml, COSMIC_* env vars, and CLI flags.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Field     FieldConfig     `mapstructure:"field"`
	Policy    catalog.Policy  `mapstructure:"policy"`
	Weights   WeightsConfig   `mapstructure:"weights"`
	Serve     ServeConfig     `mapstructure:"serve"`
	MCP       MCPConfig       `mapstructure:"mcp"`
	Store     StoreConfig     `mapstructure:"store"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Verbose   bool            `mapstructure:"verbose"`
}

// BindEnv points viper at COSMIC_* variables, mapping nested keys such as
// catalog.seed to COSMIC_CATALOG_SEED.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	p := catalog.DefaultPolicy()
	w := catalog.DefaultWeights()

	viper.SetDefault("catalog.count", 120)
	viper.SetDefault("catalog.seed", 42)
	viper.SetDefault("field.count", 2000)
	viper.SetDefault("field.seed", 7)
	viper.SetDefault("policy.conflict_threshold", p.ConflictThreshold)
	viper.SetDefault("policy.dispute_rate", p.DisputeRate)
	viper.SetDefault("policy.clean_confidence.min", p.CleanConfidence.Min)
	viper.SetDefault("policy.clean_confidence.max", p.CleanConfidence.Max)
	viper.SetDefault("policy.conflict_confidence.min", p.ConflictConfidence.Min)
	viper.SetDefault("policy.conflict_confidence.max", p.ConflictConfidence.Max)
	viper.SetDefault("weights.hubble", w[catalog.Hubble])
	viper.SetDefault("weights.gaia", w[catalog.Gaia])
	viper.SetDefault("weights.jwst", w[catalog.JWST])
	viper.SetDefault("weights.max", 100)
	viper.SetDefault("serve.addr", ":8080")
	viper.SetDefault("mcp.port", 8391)
	viper.SetDefault("store.path", ".cosmic/catalog.db")
	viper.SetDefault("telemetry.path", "")
	viper.SetDefault("verbose", false)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates the
// result.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Catalog.Count < 0 {
		errs = append(errs, fmt.Errorf("catalog.count %d must not be negative", c.Catalog.Count))
	}
	if c.Field.Count < 0 {
		errs = append(errs, fmt.Errorf("field.count %d must not be negative", c.Field.Count))
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Weights.Max <= 0 {
		errs = append(errs, fmt.Errorf("weights.max %v must be positive", c.Weights.Max))
	}
	if err := c.Weights.Vector().Validate(); err != nil {
		errs = append(errs, err)
	}
	for src, v := range c.Weights.Vector() {
		if v > c.Weights.Max {
			errs = append(errs, fmt.Errorf("weights.%s %v exceeds weights.max %v", src, v, c.Weights.Max))
		}
	}
	if c.MCP.Port < 0 || c.MCP.Port > 65535 {
		errs = append(errs, fmt.Errorf("mcp.port %d out of range", c.MCP.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
