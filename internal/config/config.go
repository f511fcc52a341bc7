package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds draft-server configuration, loaded from the environment.
type Config struct {
	AppEnv   string // APP_ENV
	AppHost  string // APP_HOST
	HTTPPort string // APP_PORT
	LogLevel string // LOG_LEVEL

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}

	// Draft timing.
	TurnTimerSec int           // TURN_TIMER_SEC, per-turn clock
	ReserveSec   int           // RESERVE_SEC, per-side reserve bank
	IdleSweep    time.Duration // IDLE_SWEEP_MIN, sweep interval
	IdleMaxAge   time.Duration // IDLE_MAX_AGE_MIN, staleness threshold

	// MatchRetention caps how many finished drafts are kept.
	MatchRetention int
}

// Load reads configuration from the environment (.env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	turnSec, _ := strconv.Atoi(getEnv("TURN_TIMER_SEC", "45"))
	reserveSec, _ := strconv.Atoi(getEnv("RESERVE_SEC", "180"))
	sweepMin, _ := strconv.Atoi(getEnv("IDLE_SWEEP_MIN", "30"))
	maxAgeMin, _ := strconv.Atoi(getEnv("IDLE_MAX_AGE_MIN", "120"))
	retention, _ := strconv.Atoi(getEnv("MATCH_RETENTION", "100"))

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppHost:        getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:       getEnv("APP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TurnTimerSec:   turnSec,
		ReserveSec:     reserveSec,
		IdleSweep:      time.Duration(sweepMin) * time.Minute,
		IdleMaxAge:     time.Duration(maxAgeMin) * time.Minute,
		MatchRetention: retention,
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "draft")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

// Validate checks required fields and production safety.
func (c *Config) Validate() error {
	if c.TurnTimerSec <= 0 {
		return errors.New("config: TURN_TIMER_SEC must be positive")
	}
	if c.ReserveSec < 0 {
		return errors.New("config: RESERVE_SEC must not be negative")
	}
	if c.DB.Host == "" {
		return errors.New("config: DB_HOST is required")
	}
	if c.DB.Database == "" {
		return errors.New("config: DB_DATABASE is required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	return nil
}

// DSN returns the PostgreSQL connection string for GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
