package config

import (
	"os"
	"strconv"
	"strings"
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

// MinIOConfig holds object storage settings for MinIO.
// An empty Endpoint disables snapshot archiving.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ScraperConfig controls how catalog pages are fetched.
type ScraperConfig struct {
	UserAgent       string
	TimeoutSec      int
	MaxRetries      int
	SpecConcurrency int
	MaxBodyBytes    int64
	// AllowedHosts restricts scrape targets; empty means any host.
	AllowedHosts []string
}

// Timeout returns the per-request fetch timeout.
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// RateLimitConfig limits scrape requests per client IP.
type RateLimitConfig struct {
	ScrapeMax       int
	ScrapeWindowSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	ServiceName string
	Version     string
	Timezone    string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Scraper     ScraperConfig
	RateLimit   RateLimitConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		ServiceName: getEnv("SERVICE_NAME", "Nissan Scraper API"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
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
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Scraper: ScraperConfig{
			UserAgent:       getEnv("SCRAPER_USER_AGENT", "nissan-scraper/1.0 (+https://github.com/nissanscraper)"),
			TimeoutSec:      getEnvInt("SCRAPER_TIMEOUT_SEC", 30),
			MaxRetries:      getEnvInt("SCRAPER_MAX_RETRIES", 2),
			SpecConcurrency: getEnvInt("SCRAPER_SPEC_CONCURRENCY", 4),
			MaxBodyBytes:    int64(getEnvInt("SCRAPER_MAX_BODY_BYTES", 5<<20)),
			AllowedHosts:    getEnvList("SCRAPER_ALLOWED_HOSTS"),
		},
		RateLimit: RateLimitConfig{
			ScrapeMax:       getEnvInt("RATE_LIMIT_SCRAPE_MAX", 10),
			ScrapeWindowSec: getEnvInt("RATE_LIMIT_SCRAPE_WINDOW_SEC", 60),
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

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
