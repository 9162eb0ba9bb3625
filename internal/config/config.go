package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	MinIO       MinIOConfig
	GoogleBooks GoogleBooksConfig
	OpenLibrary OpenLibraryConfig
	Extraction  ExtractionConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GoogleBooksConfig configures the primary bibliographic source.
// The volumes endpoint works without a key, within rate limits.
type GoogleBooksConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OpenLibraryConfig configures the secondary bibliographic source.
type OpenLibraryConfig struct {
	BaseURL    string
	CoversURL  string
	UserAgent  string
	RatePerSec int
	MaxRetries int
	Timeout    time.Duration
}

// ExtractionConfig configures the prompt-driven extraction collaborator.
// An empty APIKey degrades extraction to a typed "not configured" error
// instead of failing startup.
type ExtractionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "MeLivro API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "melivro"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			ExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 72),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "melivro-covers"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GoogleBooks: GoogleBooksConfig{
			BaseURL: getEnv("GOOGLE_BOOKS_URL", "https://www.googleapis.com/books/v1"),
			APIKey:  getEnv("GOOGLE_BOOKS_API_KEY", ""),
			Timeout: 15 * time.Second,
		},
		OpenLibrary: OpenLibraryConfig{
			BaseURL:    getEnv("OPENLIBRARY_URL", "https://openlibrary.org"),
			CoversURL:  getEnv("OPENLIBRARY_COVERS_URL", "https://covers.openlibrary.org"),
			UserAgent:  getEnv("OPENLIBRARY_USER_AGENT", "melivro-backend/1.0"),
			RatePerSec: getEnvInt("OPENLIBRARY_RPS", 2),
			MaxRetries: getEnvInt("OPENLIBRARY_MAX_RETRIES", 3),
			Timeout:    15 * time.Second,
		},
		Extraction: ExtractionConfig{
			BaseURL: getEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1"),
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			Model:   getEnv("OPENROUTER_MODEL", "google/gemini-2.0-flash-001"),
			Timeout: 30 * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks config consistency. External API keys are deliberately
// not required: their absence disables the corresponding feature only.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Extraction.APIKey == "" {
			fmt.Println("WARNING: OPENROUTER_API_KEY not set - content extraction will not work")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
