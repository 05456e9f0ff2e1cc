package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	API         APIConfig
	Database    DatabaseConfig
	OpsAddr     string
	Migrations  string
}

// APIConfig holds the vocabulary backend settings
type APIConfig struct {
	URL   string
	Token string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		API: APIConfig{
			URL:   os.Getenv("OGHMAI_API_URL"),
			Token: os.Getenv("OGHMAI_API_TOKEN"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "oghmai"),
			User:     getEnv("DB_USER", "oghmai"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		OpsAddr:    getEnv("OPS_ADDR", ":9090"),
		Migrations: getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}
	if cfg.API.URL == "" {
		return nil, fmt.Errorf("OGHMAI_API_URL is required")
	}
	if cfg.API.Token == "" {
		return nil, fmt.Errorf("OGHMAI_API_TOKEN is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
