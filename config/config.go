package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Session SessionConfig
	App     AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
}

// StoreConfig selects and configures the persistence backend.
// Backend is either "redis" or "postgres".
type StoreConfig struct {
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseDSN string
}

type SessionConfig struct {
	SweepSpec   string
	IdleMinutes int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFile     string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Backend:       getEnv("STORE_BACKEND", "redis"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			DatabaseDSN:   getEnv("DB_DSN", ""),
		},
		Session: SessionConfig{
			SweepSpec:   getEnv("SESSION_SWEEP_SPEC", "@every 5m"),
			IdleMinutes: getEnvAsInt("SESSION_IDLE_MINUTES", 30),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFile:     getEnv("LOG_FILE", ""),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case "postgres":
		if c.Store.DatabaseDSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be redis or postgres, got %q", c.Store.Backend)
	}

	if c.Session.IdleMinutes <= 0 {
		return fmt.Errorf("SESSION_IDLE_MINUTES must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
