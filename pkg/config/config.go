package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database (optional; persistence is skipped when empty)
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// DataGolf feed
	DataGolfAPIKey  string `mapstructure:"DATAGOLF_API_KEY"`
	DataGolfBaseURL string `mapstructure:"DATAGOLF_BASE_URL"`
	DataGolfTour    string `mapstructure:"DATAGOLF_TOUR"`
	OddsMarket      string `mapstructure:"ODDS_MARKET"`

	// Refresh scheduling
	RefreshSchedule string `mapstructure:"REFRESH_CRON"`

	// Simulation
	SimulationCount   int `mapstructure:"SIMULATION_COUNT"`
	SimulationWorkers int `mapstructure:"SIMULATION_WORKERS"`

	// External API resilience
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DATAGOLF_API_KEY", "")
	viper.SetDefault("DATAGOLF_BASE_URL", "https://feeds.datagolf.com")
	viper.SetDefault("DATAGOLF_TOUR", "pga")
	viper.SetDefault("ODDS_MARKET", "tournament_matchups")
	viper.SetDefault("REFRESH_CRON", "@every 5m")
	viper.SetDefault("SIMULATION_COUNT", 10000)
	viper.SetDefault("SIMULATION_WORKERS", 4)
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
