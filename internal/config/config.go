package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth providers
const (
	AuthProviderJWT        = "jwt"
	AuthProviderAuthorizer = "authorizer"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           string
	MaxUploadBytes int
	CORSOrigins    string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlite3, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Auth configuration
	AuthProvider  string // jwt or authorizer
	JWTSecret     string
	JWTTTL        time.Duration
	AdminSecret   string
	AuthzURL      string
	AuthzClientID string

	// Object store configuration
	StorageDriver    string // local or s3
	StorageLocalDir  string
	StoragePublicURL string
	S3Bucket         string
	S3Region         string
	S3Endpoint       string
	S3UploadPrefix   string
	S3ChartPrefix    string
	S3CreateBucket   bool

	// AI configuration
	AIProvider string
	AIAPIKey   string
	AIModel    string
	AIBaseURL  string
	AITimeout  time.Duration
	AIRetryMax int
}

// Load loads configuration from environment variables, after an optional ENV_FILE
func Load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		log.Printf("Loaded environment from %s", envFile)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "5000"),
		MaxUploadBytes:    getEnvAsInt("MAX_UPLOAD_BYTES", 10*1024*1024),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		DBType:            getEnv("DB_TYPE", "sqlite"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		AuthProvider:      strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderJWT)),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTTTL:            getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		AdminSecret:       getEnv("ADMIN_SECRET", ""),
		AuthzURL:          getEnv("AUTHZ_URL", ""),
		AuthzClientID:     getEnv("AUTHZ_CLIENT_ID", ""),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		StorageLocalDir:   getEnv("STORAGE_LOCAL_DIR", "./uploads"),
		StoragePublicURL:  getEnv("STORAGE_PUBLIC_URL", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3UploadPrefix:    getEnv("S3_UPLOAD_PREFIX", "excel-uploads"),
		S3ChartPrefix:     getEnv("S3_CHART_PREFIX", "charts"),
		S3CreateBucket:    getEnvAsBool("S3_CREATE_BUCKET", false),
		AIProvider:        strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		AIAPIKey:          getEnv("AI_API_KEY", ""),
		AIModel:           getEnv("AI_MODEL", "gemini-2.0-flash-001"),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		AITimeout:         getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
		AIRetryMax:        getEnvAsInt("AI_RETRY_MAX", 3),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields for the selected providers
func (cfg *Config) Validate() error {
	if cfg.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}

	switch cfg.AuthProvider {
	case AuthProviderJWT:
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required")
		}
	case AuthProviderAuthorizer:
		if cfg.AuthzURL == "" {
			return fmt.Errorf("AUTHZ_URL is required")
		}
		if cfg.AuthzClientID == "" {
			return fmt.Errorf("AUTHZ_CLIENT_ID is required")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER: %s", cfg.AuthProvider)
	}

	switch cfg.StorageDriver {
	case "local":
	case "s3":
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %s", cfg.StorageDriver)
	}

	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
