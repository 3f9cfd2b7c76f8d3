package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the sitecontext service.
type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	UserAgent     string `mapstructure:"USER_AGENT"`
	FetchTimeout  int    `mapstructure:"FETCH_TIMEOUT_SECONDS"`
	Concurrency   int    `mapstructure:"FETCH_CONCURRENCY"`
	CacheTTLHours int    `mapstructure:"CACHE_TTL_HOURS"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables in production.
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("USER_AGENT", "")
	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 7)
	viper.SetDefault("FETCH_CONCURRENCY", 3)
	viper.SetDefault("CACHE_TTL_HOURS", 24)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FetchTimeoutDuration returns the per-page fetch budget as a duration.
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// CacheTTL returns how long a rendered context stays cached.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}
