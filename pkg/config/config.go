package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	PostgresConnStr string
	MongoURI        string
	MongoDatabase   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret               string
	FirebaseCredentialsPath string

	MediaBackend       string
	MediaBaseURL       string
	GCSBucket          string
	GCSCredentialsPath string

	NatsURL  string
	NatsInit bool

	TaskQueue         string
	WorkerConcurrency int
	MaxUploadMB       int
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		PostgresConnStr: getEnv("POSTGRES_CONN_STR", "host=localhost user=postgres password=postgres dbname=aura port=5432 sslmode=disable"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "aura"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		MediaBackend:       getEnv("MEDIA_BACKEND", "gridfs"),
		MediaBaseURL:       getEnv("MEDIA_BASE_URL", "/api/v1"),
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),

		NatsURL:  getEnv("NATS_URL", ""),
		NatsInit: getEnvBool("NATS_INIT", false),

		TaskQueue:         getEnv("TASK_QUEUE", "default"),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 10),
		MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 10),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring malformed integer env var", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("ignoring malformed boolean env var", "key", key, "value", value)
		return defaultValue
	}
	return b
}
