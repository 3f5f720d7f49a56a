package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type Mongo struct {
	URI      string
	Database string
}

type Config struct {
	ServerPort        int
	StorageDriver     string
	DB                DB
	Mongo             Mongo
	JWTSecretKey      string
	AuthSkipVerify    bool
	LogLevel          slog.Level
	StoreTimeout      time.Duration
	ReconcileInterval time.Duration
	CORSAllowedOrigin string
	MigrationsPath    string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "microblog"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMongo() Mongo {
	return Mongo{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "microblog"),
	}
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not found, using environment variables")
	}

	return &Config{
		ServerPort:        getEnvAsInt("SERVER_PORT", 3002),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", DriverMongo)),
		DB:                LoadDB(),
		Mongo:             LoadMongo(),
		JWTSecretKey:      getEnv("JWT_SECRET_KEY", ""),
		AuthSkipVerify:    getEnvBool("AUTH_SKIP_VERIFY", false),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		StoreTimeout:      getEnvDuration("STORE_TIMEOUT", 10*time.Second),
		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 0),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
	}
}
