package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default token validity windows. Overridable through ACCESS_TOKEN_TTL and
// REFRESH_TOKEN_TTL, but clients are written against these values.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Config holds everything the process reads from the environment. It is
// constructed once in main and passed down; no component reads env
// variables on its own.
type Config struct {
	Env  string
	Port string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	MongoURI string
	MongoDB  string

	RedisAddr string
	RedisPass string
	RedisDB   int
}

// Load reads the .env file if present and builds the Config. It fails on
// missing required values so misconfiguration is caught at startup rather
// than on the first request.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := &Config{
		Env:        os.Getenv("ENV"),
		Port:       os.Getenv("PORT"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		AccessTTL:  DefaultAccessTTL,
		RefreshTTL: DefaultRefreshTTL,
		MongoURI:   os.Getenv("MONGO_URI"),
		MongoDB:    os.Getenv("MONGO_DB"),
		RedisAddr:  os.Getenv("REDIS_HOST"),
		RedisPass:  os.Getenv("REDIS_PASS"),
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "authsystem"
	}
	if cfg.RedisAddr == "" {
		return nil, errors.New("REDIS_HOST is required")
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse ACCESS_TOKEN_TTL: %w", err)
		}
		cfg.AccessTTL = ttl
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse REFRESH_TOKEN_TTL: %w", err)
		}
		cfg.RefreshTTL = ttl
	}

	return cfg, nil
}
