// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"election-check/internal/errors"
	"election-check/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. ELECTION_CHECK_VALIDATION_WORKERS
const EnvPrefix = "ELECTION_CHECK"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Reference locates the reference configuration (whitelists, rosters)
	Reference ReferenceConfig `json:"reference" mapstructure:"reference"`

	// Datasets are validated when the CLI gets no file arguments
	Datasets []DatasetConfig `json:"datasets,omitempty" mapstructure:"datasets"`

	// Validation contains batch driver settings
	Validation ValidationConfig `json:"validation" mapstructure:"validation"`

	// Output contains output configuration
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Metrics contains metrics export configuration
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// ReferenceConfig points at the HCL reference file
type ReferenceConfig struct {
	// File is the path to the reference configuration (.hcl or .json)
	File string `json:"file" mapstructure:"file"`

	// Election is the default election block to validate against
	Election string `json:"election" mapstructure:"election"`
}

// DatasetConfig describes one dataset document
type DatasetConfig struct {
	// Path is the JSON document path
	Path string `json:"path" mapstructure:"path"`

	// Kind is the document kind (polls, results)
	Kind string `json:"kind" mapstructure:"kind"`

	// Election overrides Reference.Election for this document
	Election string `json:"election,omitempty" mapstructure:"election"`
}

// ValidationConfig contains batch driver settings
type ValidationConfig struct {
	// Workers bounds parallel record validation; 1 is sequential
	Workers int `json:"workers" mapstructure:"workers"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the report format (cli, json)
	Format string `json:"format" mapstructure:"format"`

	// Language is the BCP 47 tag used for number formatting in cli reports
	Language string `json:"language" mapstructure:"language"`

	// NoColor disables ANSI colors
	NoColor bool `json:"no_color" mapstructure:"no_color"`
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	// Textfile is written in Prometheus text format after each run when set
	Textfile string `json:"textfile,omitempty" mapstructure:"textfile"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Reference: ReferenceConfig{
			File: filepath.Join("reference", "elections.hcl"),
		},
		Validation: ValidationConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Format:   "cli",
			Language: "fr",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
// Values from a .env file next to the config and ELECTION_CHECK_* variables
// override the file.
func Load(path string) (*Config, error) {
	if path != "" {
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Config("failed to read config "+path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Config("failed to stat config "+path, err)
		}
	}

	config := Default()
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Config("failed to decode config", err)
	}
	if config.Validation.Workers < 1 {
		config.Validation.Workers = 1
	}

	return config, nil
}

// setDefaults registers every scalar key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("reference.file", d.Reference.File)
	v.SetDefault("reference.election", d.Reference.Election)
	v.SetDefault("validation.workers", d.Validation.Workers)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.language", d.Output.Language)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
