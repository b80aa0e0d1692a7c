package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process-wide configuration, loaded once at startup and passed
// by value to every component that needs it.
type Config struct {
	AppEnv             string
	AppAddr            string
	CORSAllowedOrigins []string

	// SecretKey signs and verifies session JWTs. It has no default: a missing
	// key is a fatal configuration error, not an authentication failure.
	SecretKey string
	TokenTTL  time.Duration

	RedisAddr string
	RedisDB   int

	// BodyLimit caps request bodies. Dispatch requests carry base64-encoded
	// PDF attachments up to 30 MiB decoded, so the cap leaves headroom for
	// base64 overhead and multiple recipients.
	BodyLimit string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	// BootstrapEmail/BootstrapPassword optionally seed a super-admin account
	// at startup (development convenience).
	BootstrapEmail    string
	BootstrapPassword string
}

// ErrMissingSecretKey is returned by Load when SECRET_KEY is absent.
var ErrMissingSecretKey = errors.New("SECRET_KEY is not set")

func Load() (Config, error) {
	c := Config{}

	c.AppEnv = getEnv("APP_ENV", "development")
	c.AppAddr = getEnv("APP_ADDR", ":3030")
	c.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	c.SecretKey = os.Getenv("SECRET_KEY")
	if strings.TrimSpace(c.SecretKey) == "" {
		return Config{}, ErrMissingSecretKey
	}
	c.TokenTTL = getDuration("TOKEN_TTL", 9*time.Hour)

	c.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	c.RedisDB = getInt("REDIS_DB", 0)

	c.BodyLimit = getEnv("BODY_LIMIT", "64M")

	c.RateLimitRequests = getInt("RATE_LIMIT_REQUESTS", 100)
	c.RateLimitWindow = getDuration("RATE_LIMIT_WINDOW", 15*time.Minute)

	c.BootstrapEmail = getEnv("BOOTSTRAP_EMAIL", "")
	c.BootstrapPassword = getEnv("BOOTSTRAP_PASSWORD", "")

	return c, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	if len(res) == 0 {
		return []string{"*"}
	}
	return res
}

func (c Config) String() string {
	return fmt.Sprintf("env=%s addr=%s redis=%s/%d", c.AppEnv, c.AppAddr, c.RedisAddr, c.RedisDB)
}
