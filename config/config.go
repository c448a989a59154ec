package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string
	MigrationsDir string
	JWTSecretKey  string
	ServerPort    int
	CORSOrigin    string

	// Пул соединений с базой.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// S3-совместимое хранилище для логотипов (Cloudflare R2, MinIO и т.п.).
	S3Endpoint      string
	S3AccessKeyID   string
	S3SecretKey     string
	S3BucketName    string
	S3PublicBaseURL string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	corsOrigin := os.Getenv("FRONTEND_URL")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3000"
	}

	maxOpen, err := intEnv("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	maxIdle, err := intEnv("DB_MAX_IDLE_CONNS", 25)
	if err != nil {
		return nil, err
	}
	connLifetime, err := durationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		MigrationsDir:     migrationsDir,
		JWTSecretKey:      jwtKey,
		ServerPort:        port,
		CORSOrigin:        corsOrigin,
		DBMaxOpenConns:    maxOpen,
		DBMaxIdleConns:    maxIdle,
		DBConnMaxLifetime: connLifetime,
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:   os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:     os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3BucketName:    os.Getenv("S3_BUCKET_NAME"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

// StorageConfigured сообщает, задано ли файловое хранилище. Без него
// приложение работает, но загрузка логотипов недоступна.
func (c *Config) StorageConfigured() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != "" && c.S3SecretKey != "" && c.S3BucketName != ""
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}
