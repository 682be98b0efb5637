package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port           string
	AllowedOrigins string
	LogLevel       string

	// Persistence: Postgres when DatabaseURL is set, else SQLite when SQLitePath is set,
	// else in-memory.
	DatabaseURL string
	SQLitePath  string

	// JWT
	JWTSecret   string
	JWTExpiry   time.Duration
	APIPassword string

	// Environment
	Environment string

	// NLU service
	NLUURL           string
	NLUTimeout       time.Duration
	NLUMinConfidence float64
	DefaultLang      string

	// Product search service; empty means the built-in catalog searcher
	SearchURL     string
	SearchTimeout time.Duration

	// Interpretation
	SerializeDispatch bool
	CatalogFile       string

	// S3 snapshot archive
	S3Enabled   bool
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3Region    string
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SQLitePath:        getEnv("SQLITE_PATH", ""),
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production-please"),
		JWTExpiry:         getDurationEnv("JWT_EXPIRY_HOURS", 24) * time.Hour,
		APIPassword:       getEnv("API_PASSWORD", ""),
		Environment:       getEnv("ENVIRONMENT", "development"),
		NLUURL:            getEnv("NLU_URL", ""),
		NLUTimeout:        getDurationEnv("NLU_TIMEOUT_SECONDS", 8) * time.Second,
		NLUMinConfidence:  getFloatEnv("NLU_MIN_CONFIDENCE", 0),
		DefaultLang:       getEnv("DEFAULT_LANG", "en-IN"),
		SearchURL:         getEnv("SEARCH_URL", ""),
		SearchTimeout:     getDurationEnv("SEARCH_TIMEOUT_SECONDS", 8) * time.Second,
		SerializeDispatch: getBoolEnv("DISPATCH_SERIALIZE", true),
		CatalogFile:       getEnv("CATALOG_FILE", ""),
		S3Enabled:         getBoolEnv("S3_ENABLED", false),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:3900"),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", "list-snapshots"),
		S3UseSSL:          getBoolEnv("S3_USE_SSL", false),
		S3Region:          getEnv("S3_REGION", "garage"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
	}
	return time.Duration(defaultValue)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// S3Configured reports whether snapshot archiving has enough settings to start.
func (c *Config) S3Configured() bool {
	return c.S3Enabled && c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
