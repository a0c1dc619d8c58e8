// Package config loads application configuration from the environment, with
// an optional YAML file overlay for local development.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	HTTPAddr    string `yaml:"httpAddr"`

	TableName string `yaml:"tableName"`
	IndexName string `yaml:"indexName"`

	SupabaseURL        string `yaml:"supabaseUrl"`
	SupabaseServiceKey string `yaml:"supabaseServiceKey"`

	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// IsProduction reports whether the app runs in the production environment.
// The debug cache endpoints are only mounted when this is false.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from the environment. When CONFIG_FILE is set, the
// named YAML file is read first and environment variables override it.
func Load() (Config, error) {
	cfg := Config{
		Environment:    "development",
		HTTPAddr:       ":8080",
		TableName:      "studytrack-dev",
		IndexName:      "RelationIndex",
		AllowedOrigins: []string{"*"},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	overlayEnv(&cfg.Environment, "APP_ENV")
	overlayEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	overlayEnv(&cfg.TableName, "TABLE_NAME")
	overlayEnv(&cfg.IndexName, "INDEX_NAME")
	overlayEnv(&cfg.SupabaseURL, "SUPABASE_URL")
	overlayEnv(&cfg.SupabaseServiceKey, "SUPABASE_SERVICE_ROLE_KEY")

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return Config{}, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required")
	}
	return cfg, nil
}

func overlayEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
