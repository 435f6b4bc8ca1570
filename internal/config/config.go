package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MetricsPort string
	Env         string
	DatabaseURL string

	BaseURL string

	TAXII TAXIIConfig
}

type TAXIIConfig struct {
	Title           string
	Description     string
	DefaultPageSize int
	MaxPageSize     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnvOrPanic("DATABASE_URL"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		TAXII: TAXIIConfig{
			Title:           getEnv("TAXII_TITLE", "Simple TAXII-like Server"),
			Description:     getEnv("TAXII_DESCRIPTION", "Minimal TAXII2-like API serving STIX2 objects from PostgreSQL"),
			DefaultPageSize: getEnvInt("TAXII_DEFAULT_PAGE_SIZE", 50),
			MaxPageSize:     getEnvInt("TAXII_MAX_PAGE_SIZE", 500),
		},
	}, nil
}

// APIRoot is the externally advertised base of the TAXII surface.
func (c *Config) APIRoot() string {
	return c.BaseURL + "/taxii/"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
