package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Local     LocalConfig     `mapstructure:"local"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// AllowedOrigins is a comma-separated list; empty allows any origin.
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// MongoConfig holds settings for the remote document store. Leaving the URI
// empty runs the app against local storage only.
type MongoConfig struct {
	URI             string        `mapstructure:"uri"`
	DBName          string        `mapstructure:"db_name"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxPoolSize     uint64        `mapstructure:"max_pool_size"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout"`
}

// LocalConfig holds settings for the offline fallback store.
type LocalConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds settings for verifying identity-provider tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File enables rotating file output next to stdout when non-empty.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// AnalyticsConfig holds engine tunables.
type AnalyticsConfig struct {
	DefaultWindowDays int `mapstructure:"default_window_days"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("mongo.db_name", "sereno")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("mongo.max_pool_size", 32)
	v.SetDefault("mongo.idle_conn_timeout", 45*time.Second)
	v.SetDefault("local.path", "sereno.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("analytics.default_window_days", 30)

	v.SetEnvPrefix("SERENO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Common deployment variables without the prefix
	v.BindEnv("server.port", "PORT")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("server.allowed_origins", "ALLOWED_ORIGINS")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if the config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks that all required configuration values are present.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Local.Path == "" {
		return fmt.Errorf("local.path is required")
	}
	if c.Analytics.DefaultWindowDays <= 0 {
		return fmt.Errorf("analytics.default_window_days must be positive")
	}
	return nil
}
