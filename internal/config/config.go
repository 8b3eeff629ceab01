package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// SnapshotConfig holds object storage settings for the scrape snapshot
// archive (MinIO or any S3-compatible backend).
type SnapshotConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SessionConfig holds cookie session settings.
type SessionConfig struct {
	CookieName string
	Expiry     time.Duration
	Secure     bool
}

// ScraperConfig holds settings for the competitor price scraper.
type ScraperConfig struct {
	MinInterval    time.Duration
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	MaxPrices      int
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Format string // "json" or "text"
	Level  string // "debug", "info", "warn", "error"
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Database  DatabaseConfig
	Snapshots SnapshotConfig
	Session   SessionConfig
	Scraper   ScraperConfig
	Log       LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Snapshots: SnapshotConfig{
			Endpoint:  getEnv("SNAPSHOT_ENDPOINT", ""),
			AccessKey: getEnv("SNAPSHOT_ACCESS_KEY", ""),
			SecretKey: getEnv("SNAPSHOT_SECRET_KEY", ""),
			Bucket:    getEnv("SNAPSHOT_BUCKET", ""),
			UseSSL:    getEnvBool("SNAPSHOT_USE_SSL", false),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "optimapricer_session"),
			Expiry:     getEnvDuration("SESSION_EXPIRY", 24*time.Hour),
			Secure:     getEnvBool("SESSION_SECURE", false),
		},
		Scraper: ScraperConfig{
			MinInterval:    getEnvDuration("SCRAPER_MIN_INTERVAL", 2*time.Second),
			RequestTimeout: getEnvDuration("SCRAPER_REQUEST_TIMEOUT", 30*time.Second),
			CacheTTL:       getEnvDuration("SCRAPER_CACHE_TTL", time.Hour),
			MaxPrices:      getEnvInt("SCRAPER_MAX_PRICES", 20),
		},
		Log: LogConfig{
			Format: getEnv("LOG_FORMAT", "json"),
			Level:  getEnv("LOG_LEVEL", "info"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
