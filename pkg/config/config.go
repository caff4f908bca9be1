package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Simulator SimulatorConfig
	Pricing   PricingConfig
	Rental    RentalConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	Environment string
	ServiceName string
	CORSOrigins string // comma-separated list of allowed origins
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
	Enabled  bool
}

// RedisConfig holds Redis configuration for the snapshot store.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// NATSConfig holds event bus configuration.
type NATSConfig struct {
	URL     string
	Enabled bool
}

// SimulatorConfig holds the file-IPC contract with the motion process.
type SimulatorConfig struct {
	Dir          string
	StatusFile   string
	Binary       string
	PollInterval time.Duration
	PollAttempts int
}

// PricingConfig holds fee rates and the card discount table.
type PricingConfig struct {
	RatePerMinute float64
	RatePerKm     float64
}

// RentalConfig holds rental business thresholds.
type RentalConfig struct {
	MinBatteryLevel int
}

// Load reads configuration from environment variables, honoring a .env
// file when present.
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			ServiceName: serviceName,
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "kickboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
			Enabled:  getEnvAsBool("DB_ENABLED", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
		},
		Simulator: SimulatorConfig{
			Dir:          getEnv("SIMULATION_DIR", "simulation"),
			StatusFile:   getEnv("SIMULATION_STATUS_FILE", "driving_status.txt"),
			Binary:       getEnv("SIMULATOR_BINARY", "kickboard-simulator"),
			PollInterval: getEnvAsDuration("SIMULATOR_POLL_INTERVAL", 100*time.Millisecond),
			PollAttempts: getEnvAsInt("SIMULATOR_POLL_ATTEMPTS", 50),
		},
		Pricing: PricingConfig{
			RatePerMinute: getEnvAsFloat("PRICING_RATE_PER_MINUTE", 200),
			RatePerKm:     getEnvAsFloat("PRICING_RATE_PER_KM", 200),
		},
		Rental: RentalConfig{
			MinBatteryLevel: getEnvAsInt("RENTAL_MIN_BATTERY", 15),
		},
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis host:port address.
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
