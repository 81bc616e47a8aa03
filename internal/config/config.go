// Package config provides configuration management for the Elev8 API service.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete service configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development staging production"`
	LogLevel    string `mapstructure:"log_level" validate:"required"`
	RESTPort    string `mapstructure:"rest_port" validate:"required"`
	WSPort      string `mapstructure:"ws_port" validate:"required"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn" validate:"required"`
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig represents token verification configuration. Token issuance
// lives in a separate service; this side only needs the shared secret.
// AdminEmails is deployment data, never hardcoded.
type AuthConfig struct {
	Secret      string   `mapstructure:"secret" validate:"required"`
	AdminEmails []string `mapstructure:"admin_emails"`
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction checks if the service is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
