// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// DBDSN is the Postgres connection string.
	DBDSN string

	// Bucket is the GCS bucket holding CSV exports and the account roster.
	Bucket string

	// CSVPrefix is the object prefix under which CSV exports live.
	CSVPrefix string

	// RosterObject is the object key of the account roster (xlsx or csv).
	RosterObject string

	// CSVWorkers is the worker pool size for the CSV ingest run.
	CSVWorkers int

	// RSSWorkers is the worker pool size for the RSS ingest run.
	RSSWorkers int

	// BatchSize is the maximum number of trades per upsert statement.
	BatchSize int

	// Feed contains settings for the RSS feed transport.
	Feed FeedConfig
}

// FeedConfig holds RSS feed transport settings.
type FeedConfig struct {
	// RequestsPerSecond caps the rate of feed fetches across all workers.
	RequestsPerSecond float64

	// RequestTimeoutSeconds bounds a single feed fetch.
	RequestTimeoutSeconds int
}

// getDatabaseDSN constructs the Postgres DSN from environment variables.
func getDatabaseDSN() string {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	sslMode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, sslMode,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		DBDSN:        getDatabaseDSN(),
		Bucket:       getEnv("BUCKET_NAME", ""),
		CSVPrefix:    getEnv("CSV_PREFIX", "testcsvs/"),
		RosterObject: getEnv("ACCOUNTS_FILE", "rss_data/30_RSS_Accounts.xlsx"),
		CSVWorkers:   getEnvInt("CSV_MAX_WORKERS", 10),
		RSSWorkers:   getEnvInt("RSS_MAX_WORKERS", 20),
		BatchSize:    getEnvInt("BATCH_SIZE", 100),
		Feed: FeedConfig{
			RequestsPerSecond:     getEnvFloat("FEED_REQUESTS_PER_SECOND", 5),
			RequestTimeoutSeconds: getEnvInt("FEED_TIMEOUT_SECONDS", 10),
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvFloat returns the environment variable as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
