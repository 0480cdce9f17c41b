package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	SessionExpiry       time.Duration
	VisitorCookieMaxAge time.Duration
	InsecureCookies     bool // Drop the Secure flag outside development, e.g. behind a plain-HTTP staging proxy

	// Server
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration

	// Weather (OpenWeatherMap)
	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherLang    string

	// AI stylist (OpenAI-compatible). Without a key the heuristic stylist is used.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Rate limiting (optional Redis, in-memory otherwise)
	RedisURL       string
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Observability (optional)
	SentryDSN string

	// Storage (optional, S3-compatible). Without a bucket images are kept inline.
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for non-AWS providers
	S3PublicURL string // Optional: CDN in front of the bucket
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "otion"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/otion.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"),

		// Sessions
		SessionExpiry:       envDuration("SESSION_EXPIRY", 168*time.Hour),          // 7 days
		VisitorCookieMaxAge: envDuration("VISITOR_COOKIE_MAX_AGE", 8760*time.Hour), // 1 year
		InsecureCookies:     envBool("INSECURE_COOKIES", false),

		// Server
		UpstreamTimeout: envDuration("UPSTREAM_TIMEOUT", 20*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		// Weather
		WeatherAPIKey:  envString("WEATHER_API_KEY", ""),
		WeatherBaseURL: envString("WEATHER_BASE_URL", "https://api.openweathermap.org"),
		WeatherLang:    envString("WEATHER_LANG", "kr"),

		// AI stylist
		OpenAIAPIKey:  envString("OPENAI_API_KEY", ""),
		OpenAIBaseURL: envString("OPENAI_BASE_URL", ""),
		OpenAIModel:   envString("OPENAI_MODEL", "gpt-4o-mini"),

		// Rate limiting
		RedisURL:       envString("REDIS_URL", ""),
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction warns about optional services that degrade the app when missing.
// Weather and the AI stylist have fallbacks, so neither is fatal.
func validateProduction(cfg *Config) {
	if cfg.WeatherAPIKey == "" {
		slog.Warn("WEATHER_API_KEY is not set, weather lookups will report unavailable")
	}
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY is not set, advice falls back to the heuristic stylist")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SecureCookies reports whether cookies get the Secure flag. Only local development serves plain HTTP.
func (c *Config) SecureCookies() bool {
	return !c.IsDevelopment() && !c.InsecureCookies
}
