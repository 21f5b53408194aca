// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Session   SessionConfig   `mapstructure:"session"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig describes the onboarding REST backend.
type BackendConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Timeout    int    `mapstructure:"timeout"`    // milliseconds
	RetryCount int    `mapstructure:"retry_count"`
	RetryWait  int    `mapstructure:"retry_wait"` // milliseconds
	UserAgent  string `mapstructure:"user_agent"`
}

// Session drivers.
const (
	SessionDriverRedis    = "redis"
	SessionDriverPostgres = "postgres"
	SessionDriverFile     = "file"
	SessionDriverMemory   = "memory"
)

// SessionConfig selects where the resumable subject id is kept.
type SessionConfig struct {
	Driver   string `mapstructure:"driver"`
	Key      string `mapstructure:"key"`
	TTL      int    `mapstructure:"ttl"` // milliseconds, 0 keeps forever
	FilePath string `mapstructure:"file_path"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DocumentsConfig holds upload acceptance rules.
type DocumentsConfig struct {
	MaxFileSize       int64    `mapstructure:"max_file_size"` // bytes
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	CatalogPath       string   `mapstructure:"catalog_path"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
