package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Values come from the environment (optionally via a .env file) with
// sensible defaults for local development.
type Config struct {
	ServerPort string
	WebAppDir  string // Path to the public site's UI files

	// Public base URL used to build photo URLs handed to clients.
	PublicBaseURL string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	// Upload policy
	MaxUploadBytes int64  // hard limit for a single image upload
	DefaultFolder  string // object-store folder when a photo has no album

	// Auth
	JWTSecret     string
	TokenTTLHours int

	// Admin seed credentials. When both are set, the admin account is
	// created at startup if it does not exist yet.
	AdminUsername string
	AdminPassword string

	// Contact form relay
	SendGridAPIKey string
	ContactFrom    string
	ContactTo      string

	// Optional drop-folder auto import. Empty disables the watcher.
	IngestDir   string
	IngestAlbum string

	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvInt64 gets an environment variable as int64 or returns a default value.
func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override variables already in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		WebAppDir:     getEnv("WEBAPP_DIR", "web/ui"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default for passwords
		DBName:     getEnv("DB_NAME", "photofolio"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "photofolio"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 50<<20), // 50MB
		DefaultFolder:  getEnv("DEFAULT_UPLOAD_FOLDER", "portfolio"),

		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret"),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		ContactFrom:    getEnv("CONTACT_FROM", "noreply@localhost"),
		ContactTo:      os.Getenv("CONTACT_TO"),

		IngestDir:   os.Getenv("INGEST_DIR"),
		IngestAlbum: getEnv("INGEST_ALBUM", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}
