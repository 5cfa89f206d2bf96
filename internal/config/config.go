// Package config loads the aoiro.yaml project configuration: taxpayer
// profile, filing settings and the database location.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the project configuration file looked up in the
// working directory.
const DefaultFileName = "aoiro.yaml"

// Environment overrides; set via the environment or a .env file.
const (
	EnvDB     = "AOIRO_DB"
	EnvConfig = "AOIRO_CONFIG"
)

// Config represents the top-level aoiro.yaml configuration.
type Config struct {
	Taxpayer TaxpayerConfig `yaml:"taxpayer"`
	Filing   FilingConfig   `yaml:"filing"`
	Database DatabaseConfig `yaml:"database"`
}

// TaxpayerConfig identifies the taxpayer and the personal statuses that
// change the return.
type TaxpayerConfig struct {
	Name           string `yaml:"name"`
	Address        string `yaml:"address,omitempty"`
	BirthDate      string `yaml:"birth_date,omitempty"` // YYYY-MM-DD
	WidowStatus    string `yaml:"widow_status,omitempty"`
	Disability     string `yaml:"disability,omitempty"`
	WorkingStudent bool   `yaml:"working_student,omitempty"`
}

// FilingConfig carries per-year filing settings.
type FilingConfig struct {
	FiscalYear             int    `yaml:"fiscal_year"`
	BlueReturnDeduction    int64  `yaml:"blue_return_deduction"`
	ConsumptionTaxMethod   string `yaml:"consumption_tax_method,omitempty"`
	SimplifiedBusinessType int    `yaml:"simplified_business_type,omitempty"`
	SelfMedicationEligible bool   `yaml:"self_medication_eligible,omitempty"`
	EstimatedTaxPaid       int64  `yaml:"estimated_tax_paid,omitempty"`
}

// DatabaseConfig points at the sqlite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Load reads an aoiro.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(name string, fiscalYear int) *Config {
	cfg := &Config{
		Taxpayer: TaxpayerConfig{Name: name},
		Filing: FilingConfig{
			FiscalYear:          fiscalYear,
			BlueReturnDeduction: 650000,
		},
		Database: DatabaseConfig{Path: "aoiro.db"},
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = "aoiro.db"
	}
	if c.Filing.BlueReturnDeduction == 0 {
		c.Filing.BlueReturnDeduction = 650000
	}
}

// Resolve finds the config file and database path, letting the
// environment override both. A .env file in the working directory is
// read first, missing one is fine.
func Resolve(explicitPath string) (*Config, error) {
	_ = godotenv.Load()

	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultFileName
	}

	cfg, err := Load(path)
	if err != nil {
		if explicitPath == "" && errors.Is(err, os.ErrNotExist) {
			// No config file; run on defaults.
			cfg = Default("", 0)
		} else {
			return nil, err
		}
	}

	if db := os.Getenv(EnvDB); db != "" {
		cfg.Database.Path = db
	}
	return cfg, nil
}
