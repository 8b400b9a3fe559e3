// Package config loads runtime configuration: the YAML application file,
// YAML recipe overrides, and single-column CSV team rosters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"otc-reports/pkg/platform"
)

// Config is the application configuration file.
type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"api"`

	ClickHouse struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Database string `yaml:"database"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"clickhouse"`

	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`

	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	RecipesFile string `yaml:"recipes_file"`
}

// Default returns the configuration used when no file is given. Values
// come from the environment with development fallbacks.
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = platform.GetEnv("OTC_API_BASE_URL", "")
	cfg.API.Token = platform.GetEnv("OTC_API_TOKEN", "")
	cfg.ClickHouse.Host = platform.GetEnv("CLICKHOUSE_HOST", "localhost")
	cfg.ClickHouse.Port = platform.GetEnvInt("CLICKHOUSE_PORT", 9000)
	cfg.ClickHouse.Database = platform.GetEnv("CLICKHOUSE_DATABASE", "otcreports")
	cfg.ClickHouse.Username = platform.GetEnv("CLICKHOUSE_USERNAME", "default")
	cfg.ClickHouse.Password = platform.GetEnv("CLICKHOUSE_PASSWORD", "")
	cfg.ClickHouse.Debug = platform.GetEnvBool("CLICKHOUSE_DEBUG", false)
	cfg.Postgres.DSN = platform.GetEnv("POSTGRES_DSN", "")
	cfg.Output.Dir = platform.GetEnv("OTC_OUTPUT_DIR", "out")
	return cfg
}

// Load reads a YAML configuration file over the environment defaults.
// Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
