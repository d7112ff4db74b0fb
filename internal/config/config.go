package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	JWT       JWTConfig
	Dispatch  DispatchConfig
	Scheduler SchedulerConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

// DispatchConfig bounds the per-dispatch worker pool and the per-attempt
// channel send timeout.
type DispatchConfig struct {
	MaxConcurrentSends int           `mapstructure:"max_concurrent_sends"`
	AttemptTimeout     time.Duration `mapstructure:"attempt_timeout"`
}

type SchedulerConfig struct {
	NewReleaseInterval     time.Duration `mapstructure:"new_release_interval"`
	UpcomingInterval       time.Duration `mapstructure:"upcoming_interval"`
	LimitedEditionInterval time.Duration `mapstructure:"limited_edition_interval"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("dispatch.max_concurrent_sends", 8)
	viper.SetDefault("dispatch.attempt_timeout", 10*time.Second)
	viper.SetDefault("scheduler.new_release_interval", 30*time.Minute)
	viper.SetDefault("scheduler.upcoming_interval", time.Hour)
	viper.SetDefault("scheduler.limited_edition_interval", 15*time.Minute)
	viper.SetDefault("ratelimit.requests_per_second", 50)
	viper.SetDefault("ratelimit.burst", 100)
}
