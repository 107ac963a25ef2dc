package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string
	Env     string

	CacheDriver string // sqlite | bolt
	CachePath   string

	// PostgREST endpoint of the hosted database. Takes precedence over RemoteDSN.
	RemoteURL     string
	RemoteKey     string
	RemoteDriver  string // sqlite | pgx
	RemoteDSN     string
	RemoteTimeout time.Duration

	ReviewsAPIKey    string
	ReviewsPlaceID   string
	ReviewsMaxLength int

	CheckoutURL   string
	OutboxWorkers int

	AdminEmail    string
	AdminPassword string
	SessionIdle   time.Duration
}

// RemoteConfigured reports whether any remote store is set up.
func (c Config) RemoteConfigured() bool { return c.RemoteURL != "" || c.RemoteDSN != "" }

func Load() Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	cfg := Config{
		Port:             env("PORT", "8080"),
		DBDSN:            env("DB_DSN", "gymsite.db"), // sqlite file in project root
		LogFile:          os.Getenv("LOG_FILE"),
		Env:              env("APP_ENV", "development"),
		CacheDriver:      env("CACHE_DRIVER", "sqlite"),
		CachePath:        env("CACHE_PATH", "gymsite-cache.bolt"),
		RemoteURL:        os.Getenv("REMOTE_URL"),
		RemoteKey:        os.Getenv("REMOTE_KEY"),
		RemoteDriver:     env("REMOTE_DRIVER", "sqlite"),
		RemoteDSN:        os.Getenv("REMOTE_DSN"),
		RemoteTimeout:    envDuration("REMOTE_TIMEOUT", 10*time.Second),
		ReviewsAPIKey:    os.Getenv("REVIEWS_API_KEY"),
		ReviewsPlaceID:   os.Getenv("REVIEWS_PLACE_ID"),
		ReviewsMaxLength: envInt("REVIEWS_MAX_LENGTH", 280),
		CheckoutURL:      os.Getenv("CHECKOUT_URL"),
		OutboxWorkers:    envInt("OUTBOX_WORKERS", 4),
		AdminEmail:       env("ADMIN_EMAIL", "admin@gymsite.test"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		SessionIdle:      envDuration("SESSION_IDLE", 8*time.Hour),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CACHE_DRIVER=%s REMOTE_URL=%s REMOTE_DRIVER=%s REMOTE_DSN=%s REMOTE_KEY=%s REVIEWS_API_KEY=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.CacheDriver, cfg.RemoteURL, cfg.RemoteDriver, mask(cfg.RemoteDSN), mask(cfg.RemoteKey), mask(cfg.ReviewsAPIKey), cfg.LogFile)
	return cfg
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
