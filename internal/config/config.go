package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabasePath string `envconfig:"DATABASE_PATH" default:"data/nutrition.db"`

	// DefaultUserID scopes every store operation. Single-tenant today, but
	// threaded through instead of hardcoded so multi-user is a config change.
	DefaultUserID string `envconfig:"DEFAULT_USER_ID" default:"demo"`

	NutritionixAppID   string `envconfig:"NUTRITIONIX_APP_ID"`
	NutritionixAPIKey  string `envconfig:"NUTRITIONIX_API_KEY"`
	NutritionixBaseURL string `envconfig:"NUTRITIONIX_BASE_URL"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"nutrilog-exports"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("NUTRILOG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// HasS3 reports whether export artifacts should also be uploaded to S3.
func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// HasNutritionix reports whether real lookup credentials are configured.
// Startup never blocks on this; without credentials, lookup calls fail at
// request time.
func (c *Config) HasNutritionix() bool {
	return c.NutritionixAppID != "" && c.NutritionixAPIKey != ""
}

// DataDir is the directory holding the database file and export artifacts.
func (c *Config) DataDir() string {
	return filepath.Dir(c.DatabasePath)
}

// ExportPath is the location of the CSV export artifact, overwritten on
// each export.
func (c *Config) ExportPath() string {
	return filepath.Join(c.DataDir(), "logs_export.csv")
}
