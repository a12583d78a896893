package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config represents .dbz.yml (or .dbz.toml)
type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// DatabaseConfig holds the connection settings
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" toml:"dsn"`
	User            string        `yaml:"user" toml:"user"`
	Password        string        `yaml:"password" toml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" toml:"conn_max_lifetime"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Defaults returns the default configuration
func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:          "sqlite::memory:",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}

	if c.Database.MaxOpenConns < 0 {
		errs = append(errs, fmt.Errorf("database.max_open_conns must not be negative, got %d", c.Database.MaxOpenConns))
	}

	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, fmt.Errorf("database.max_idle_conns must not be negative, got %d", c.Database.MaxIdleConns))
	}

	if c.Database.ConnMaxLifetime < 0 {
		errs = append(errs, fmt.Errorf("database.conn_max_lifetime must not be negative, got %s", c.Database.ConnMaxLifetime))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// LogLevel parses the configured log level. An empty level means "warn".
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.WarnLevel, nil
	}

	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log.level: %w", err)
	}

	return level, nil
}
