// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Daily       DailyConfig       `mapstructure:"daily"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	History     HistoryConfig     `mapstructure:"history"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Metrics         bool          `mapstructure:"metrics"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// DailyConfig holds daily reward configuration.
type DailyConfig struct {
	BaseReward        int64 `mapstructure:"base_reward"`
	CooldownHours     int   `mapstructure:"cooldown_hours"`
	StreakWindowHours int   `mapstructure:"streak_window_hours"`
	StreakStep        int64 `mapstructure:"streak_step"`
	StreakCap         int64 `mapstructure:"streak_cap"`
}

// LeaderboardConfig holds leaderboard configuration.
type LeaderboardConfig struct {
	Limit int `mapstructure:"limit"`
}

// HistoryConfig holds history query limits.
type HistoryConfig struct {
	LedgerLimit int `mapstructure:"ledger_limit"`
	GamesLimit  int `mapstructure:"games_limit"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., SERVER_PORT, DATABASE_HOST, DAILY_BASE_REWARD
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.metrics", true)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "taskquest")
	v.SetDefault("database.name", "taskquest")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Daily reward defaults
	v.SetDefault("daily.base_reward", 100)
	v.SetDefault("daily.cooldown_hours", 24)
	v.SetDefault("daily.streak_window_hours", 48)
	v.SetDefault("daily.streak_step", 5)
	v.SetDefault("daily.streak_cap", 50)

	// Leaderboard defaults
	v.SetDefault("leaderboard.limit", 10)

	// History defaults
	v.SetDefault("history.ledger_limit", 50)
	v.SetDefault("history.games_limit", 20)
}
