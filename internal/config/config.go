package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	HTTPAddr    string
	DBDSN       string

	MigrationsPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Grace period appended to a merged block's end when deciding whether
	// "now" still falls inside it.
	BlockGracePeriod time.Duration

	// Device-control service the unlock signal is posted to.
	UnlockEndpoint string
	UnlockTimeout  time.Duration

	// Rolling materialization window for vendor day slots.
	DaySlotWindowDays int

	ConsoleCacheTTL time.Duration
}

func Load() (*Config, error) {
	// Load .env if present; real deployments rely on the environment.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		Environment:       getEnv("ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DBDSN:             os.Getenv("DB_DSN"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		BlockGracePeriod:  getEnvAsDuration("BLOCK_GRACE_PERIOD", 30*time.Minute),
		UnlockEndpoint:    getEnv("UNLOCK_ENDPOINT", "http://localhost:9090/api/device/unlock"),
		UnlockTimeout:     getEnvAsDuration("UNLOCK_TIMEOUT", 2500*time.Millisecond),
		DaySlotWindowDays: getEnvAsInt("DAY_SLOT_WINDOW_DAYS", 180),
		ConsoleCacheTTL:   getEnvAsDuration("CONSOLE_CACHE_TTL", 30*time.Second),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
