package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageBackend selects where uploaded avatars are written.
type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageMinio StorageBackend = "minio"
)

// MinioConfig configures the MinIO avatar backend.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// RabbitMQConfig configures the catalog event publisher. An empty URL
// disables publishing.
type RabbitMQConfig struct {
	URL          string
	Queue        string
	QueueDurable bool
}

// AppConfig is everything the server reads from the environment besides
// the database.
type AppConfig struct {
	ServerPort          string
	UploadsDir          string
	SessionSecret       string
	SessionTTL          time.Duration
	SessionReapInterval time.Duration
	CookieSecure        bool
	CSRFKey             []byte
	CORSOrigin          string
	StorageBackend      StorageBackend
	Minio               MinioConfig
	RabbitMQ            RabbitMQConfig
	LogLevel            slog.Level
}

// LoadAppConfig reads AppConfig, falling back to development defaults.
func LoadAppConfig() *AppConfig {
	cfg := &AppConfig{
		ServerPort:          getEnv("SERVER_PORT", "5000"),
		UploadsDir:          getEnv("UPLOADS_DIR", "uploads"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionReapInterval: getEnvDuration("SESSION_REAP_INTERVAL", 15*time.Minute),
		CookieSecure:        getEnv("COOKIE_SECURE", "false") == "true",
		CORSOrigin:          getEnv("CORS_ORIGIN", "http://localhost:5173"),
		StorageBackend:      StorageBackend(strings.ToLower(getEnv("STORAGE_BACKEND", string(StorageLocal)))),
		Minio: MinioConfig{
			Endpoint:      os.Getenv("MINIO_ENDPOINT"),
			AccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
			Bucket:        getEnv("MINIO_BUCKET", "ougadgets"),
			UseSSL:        getEnv("MINIO_USE_SSL", "false") == "true",
			PublicBaseURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:          os.Getenv("RABBITMQ_URL"),
			Queue:        getEnv("EVENTS_QUEUE", "catalog.events"),
			QueueDurable: true,
		},
		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, generating a random one. Sessions will not survive a restart.")
		cfg.SessionSecret = base64.StdEncoding.EncodeToString(generateRandomBytes(32))
	}

	csrfKeyStr := os.Getenv("CSRF_KEY")
	if csrfKeyStr == "" {
		slog.Warn("CSRF_KEY not set, generating a random key for development")
		cfg.CSRFKey = generateRandomBytes(32)
	} else {
		decodedKey, err := base64.StdEncoding.DecodeString(csrfKeyStr)
		if err != nil || len(decodedKey) < 32 {
			slog.Warn("CSRF_KEY is invalid or shorter than 32 bytes, generating a random key")
			cfg.CSRFKey = generateRandomBytes(32)
		} else {
			cfg.CSRFKey = decodedKey[:32]
		}
	}

	if cfg.StorageBackend != StorageLocal && cfg.StorageBackend != StorageMinio {
		slog.Warn("Unknown STORAGE_BACKEND, using local", "value", cfg.StorageBackend)
		cfg.StorageBackend = StorageLocal
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		slog.Error("Invalid SERVER_PORT, falling back to default", "SERVER_PORT", cfg.ServerPort)
		cfg.ServerPort = "5000"
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
	}
	return b
}
