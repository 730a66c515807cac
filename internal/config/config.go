package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Snowflake SnowflakeConfig `yaml:"snowflake"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// OptimizerConfig holds the default parameters for optimization runs.
// Intensity lives in [5,30] and threshold in [50,90]; out-of-range values
// from clients are clamped at the service boundary.
type OptimizerConfig struct {
	DefaultIntensity int `yaml:"default_intensity"`
	DefaultThreshold int `yaml:"default_threshold"`
}

// PostgresConfig holds the optional Postgres-backed record repository.
// When DatabaseURL is empty the service runs off the embedded dataset.
type PostgresConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
}

// RedisConfig holds the optional optimization-run cache.
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// SnowflakeConfig holds the optional reach-data warehouse source
type SnowflakeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	Warehouse string `yaml:"warehouse"`
	Table     string `yaml:"table"`
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if cfg.Optimizer.DefaultIntensity == 0 {
		cfg.Optimizer.DefaultIntensity = 15
	}
	if cfg.Optimizer.DefaultThreshold == 0 {
		cfg.Optimizer.DefaultThreshold = 70
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 300
	}
	if cfg.Snowflake.Database == "" {
		cfg.Snowflake.Database = "SANTOOR_DATA_LAKE"
	}
	if cfg.Snowflake.Schema == "" {
		cfg.Snowflake.Schema = "TVREACH"
	}
	if cfg.Snowflake.Table == "" {
		cfg.Snowflake.Table = "CHANNEL_METRICS"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
// A missing config file is not an error; the service runs on defaults.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg = &Config{}
		cfg.applyDefaults()
	} else if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DatabaseURL = v
		cfg.Postgres.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SNOWFLAKE_ACCOUNT"); v != "" {
		cfg.Snowflake.Account = v
	}
	if v := os.Getenv("SNOWFLAKE_USER"); v != "" {
		cfg.Snowflake.User = v
	}
	if v := os.Getenv("SNOWFLAKE_PASSWORD"); v != "" {
		cfg.Snowflake.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
