package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Database
	DatabaseURL string

	// Redis (optional; scheduler lock and distributed rate limiting)
	RedisURL string

	// JWT
	JWTSecret     string
	JWTExpiration time.Duration

	// CORS
	CORSAllowedOrigins []string

	// Matchmaking
	MatchmakingInterval time.Duration
	QueueTimeout        time.Duration
	EloRange            int
	EloKFactor          int

	// Leaderboard
	LeaderboardMinMatches int
}

func Load() (*Config, error) {
	// Load .env if present
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiration:         parseDuration(getEnv("JWT_EXPIRATION", "24h"), 24*time.Hour),
		MatchmakingInterval:   parseDuration(getEnv("MATCHMAKING_INTERVAL", "5s"), 5*time.Second),
		QueueTimeout:          parseDuration(getEnv("QUEUE_TIMEOUT", "5m"), 5*time.Minute),
		EloRange:              parseInt(getEnv("MATCHMAKING_ELO_RANGE", "200"), 200),
		EloKFactor:            parseInt(getEnv("ELO_K_FACTOR", "32"), 32),
		LeaderboardMinMatches: parseInt(getEnv("LEADERBOARD_MIN_MATCHES", "10"), 10),
		CORSAllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return n
}
