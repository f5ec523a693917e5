package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "OLIST_INSIGHTS_CONFIG"
	databaseDSNEnv   = "OLIST_INSIGHTS_DSN"
	referenceDateEnv = "OLIST_INSIGHTS_REFERENCE_DATE"

	// Snapshot date of the bundled dataset; recency is measured against
	// this fixed date, never against the wall clock, so reruns reproduce.
	defaultReferenceDate = "2018-09-01"
	defaultBucketCount   = 5
	dateLayout           = "2006-01-02"
)

// Config holds settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RFM      RFMConfig      `yaml:"rfm"`
	Output   OutputConfig   `yaml:"output"`
	Verbose  bool           `yaml:"verbose"`
}

// DatabaseConfig describes connection details for the snapshot database.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RFMConfig is the configuration surface of the segmentation core.
type RFMConfig struct {
	ReferenceDate string `yaml:"referenceDate"`
	BucketCount   int    `yaml:"bucketCount"`
}

// Reference parses the configured reference date as a UTC day boundary.
func (r RFMConfig) Reference() (time.Time, error) {
	raw := r.ReferenceDate
	if raw == "" {
		raw = defaultReferenceDate
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse referenceDate %q: %w", raw, err)
	}
	return t, nil
}

// Buckets returns the configured bucket count, falling back to 5.
func (r RFMConfig) Buckets() int {
	if r.BucketCount <= 0 {
		return defaultBucketCount
	}
	return r.BucketCount
}

// OutputConfig controls report export.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file is honored before the environment is consulted.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(referenceDateEnv); v != "" {
		c.RFM.ReferenceDate = v
	}
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{DSN: ""},
		RFM:      RFMConfig{ReferenceDate: defaultReferenceDate, BucketCount: defaultBucketCount},
		Output:   OutputConfig{Dir: "reports/", Format: "json"},
		Verbose:  true,
	}
}
