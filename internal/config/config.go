package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	AppId       string

	BackendURL     string
	BackendTimeout time.Duration

	SessionSecret        string
	SessionTTL           time.Duration
	SessionStore         string // mongo | redis | memory
	SessionSchemaVersion int

	MongoURI string
	DBName   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins   string
	ListIdleTTL   time.Duration
	SweepSchedule string // standard cron expression
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "coin-admin"),

		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:5000/api"), "/"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 15*time.Second),

		SessionSecret:        getEnv("SESSION_SECRET", "secret"),
		SessionTTL:           getDuration("SESSION_TTL", 24*time.Hour),
		SessionStore:         getEnv("SESSION_STORE", "mongo"),
		SessionSchemaVersion: getInt("SESSION_SCHEMA_VERSION", 1),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "coin-admin"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:3001"),
		ListIdleTTL:   getDuration("LIST_IDLE_TTL", 30*time.Minute),
		SweepSchedule: getEnv("SWEEP_SCHEDULE", "*/5 * * * *"),
	}, nil
}

// IsProduction reports whether the console runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
