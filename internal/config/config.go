package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Payment  PaymentConfig
}

type ServerConfig struct {
	Port           int     `mapstructure:"port" envconfig:"SERVER_PORT" default:"8080"`
	TimeoutSeconds int     `mapstructure:"timeoutSeconds" envconfig:"SERVER_TIMEOUT_SECONDS" default:"30"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" envconfig:"SERVER_RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" envconfig:"SERVER_RATE_LIMIT_BURST" default:"100"`
}

type DatabaseConfig struct {
	Host                   string `mapstructure:"host" envconfig:"DB_HOST" default:"localhost"`
	Port                   int    `mapstructure:"port" envconfig:"DB_PORT" default:"5432"`
	User                   string `mapstructure:"user" envconfig:"DB_USER" default:"postgres"`
	Password               string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name                   string `mapstructure:"name" envconfig:"DB_NAME" default:"doctors_portal"`
	SSLMode                string `mapstructure:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" envconfig:"DB_CONN_MAX_LIFETIME_MINUTES" default:"30"`
}

type RedisConfig struct {
	// Addr is optional: when empty the reservation engine serializes
	// in process instead of through Redis.
	Addr       string `mapstructure:"addr" envconfig:"REDIS_ADDR"`
	Password   string `mapstructure:"password" envconfig:"REDIS_PASSWORD"`
	DB         int    `mapstructure:"db" envconfig:"REDIS_DB" default:"0"`
	LockTTLSec int    `mapstructure:"lock_ttl_seconds" envconfig:"REDIS_LOCK_TTL_SECONDS" default:"5"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET" required:"true"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS" default:"24"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT" default:"587"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type PaymentConfig struct {
	BaseURL  string `mapstructure:"base_url" envconfig:"PAYMENT_BASE_URL"`
	APIKey   string `mapstructure:"api_key" envconfig:"PAYMENT_API_KEY"`
	Currency string `mapstructure:"currency" envconfig:"PAYMENT_CURRENCY" default:"usd"`
}

// LoadConfig reads config.yaml, falling back to environment variables
// when no file is present (container deployments ship env only).
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return LoadFromEnv()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadFromEnv populates the config purely from the environment
func LoadFromEnv() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &config, nil
}
