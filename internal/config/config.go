package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret  string
	JWTTTLDays int

	AllowedOrigins []string

	AuthRateLimit     int
	AuthRateWindowSec int

	MaxBodyBytes int64

	OTLPEndpoint string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:               env,
		Port:              port,
		DBURL:             dbURL,
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTLDays:        getEnvInt("JWT_TTL_DAYS", 7),
		AllowedOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		AuthRateLimit:     getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindowSec: getEnvInt("AUTH_RATE_WINDOW_S", 60),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		OTLPEndpoint:      getEnv("OTLP_ENDPOINT", ""),
	}
}

func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLDays) * 24 * time.Hour
}

func buildDBURL() string {
	if url := os.Getenv("DB_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "taskhub")
	pass := getEnv("DB_PASSWORD", "taskhub")
	name := getEnv("DB_NAME", "taskhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")

	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
