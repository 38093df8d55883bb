package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/spf13/viper"
)

// settingKeys maps config file keys to the environment variables the server reads
var settingKeys = []struct {
	key, env string
	def      interface{}
}{
	{"db_type", "DB_TYPE", "sqlite"},
	{"db_host", "DB_HOST", "localhost"},
	{"db_port", "DB_PORT", "3306"},
	{"db_database", "DB_DATABASE", ""},
	{"db_user", "DB_USER", ""},
	{"db_password", "DB_PASSWORD", ""},
	{"db_connection_limit", "DB_CONNECTION_LIMIT", 2},
	{"jwt_secret", "JWT_SECRET", ""},
	{"storage_driver", "STORAGE_DRIVER", "local"},
	{"storage_local_dir", "STORAGE_LOCAL_DIR", "./uploads"},
	{"storage_public_url", "STORAGE_PUBLIC_URL", ""},
	{"s3_bucket", "S3_BUCKET", ""},
	{"s3_region", "S3_REGION", "us-east-1"},
	{"s3_endpoint", "S3_ENDPOINT", ""},
	{"s3_upload_prefix", "S3_UPLOAD_PREFIX", "excel-uploads"},
	{"s3_chart_prefix", "S3_CHART_PREFIX", "charts"},
	{"ai_provider", "AI_PROVIDER", "gemini"},
	{"ai_api_key", "AI_API_KEY", ""},
	{"ai_model", "AI_MODEL", "gemini-2.0-flash-001"},
	{"ai_base_url", "AI_BASE_URL", ""},
	{"ai_timeout", "AI_TIMEOUT", 60 * time.Second},
	{"ai_retry_max", "AI_RETRY_MAX", 3},
}

// LoadConfig reads settings with precedence env > config file > defaults.
// Without cfgFile, ~/.excel-analyzer/config.yaml is read when present.
func LoadConfig(cfgFile string) (*config.Config, error) {
	v := viper.New()
	for _, s := range settingKeys {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", s.env, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".excel-analyzer"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional
		_ = v.ReadInConfig()
	}

	return &config.Config{
		DBType:            strings.ToLower(v.GetString("db_type")),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBDatabase:        v.GetString("db_database"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBConnectionLimit: v.GetInt("db_connection_limit"),
		AuthProvider:      config.AuthProviderJWT,
		JWTSecret:         v.GetString("jwt_secret"),
		StorageDriver:     strings.ToLower(v.GetString("storage_driver")),
		StorageLocalDir:   v.GetString("storage_local_dir"),
		StoragePublicURL:  v.GetString("storage_public_url"),
		S3Bucket:          v.GetString("s3_bucket"),
		S3Region:          v.GetString("s3_region"),
		S3Endpoint:        v.GetString("s3_endpoint"),
		S3UploadPrefix:    v.GetString("s3_upload_prefix"),
		S3ChartPrefix:     v.GetString("s3_chart_prefix"),
		AIProvider:        strings.ToLower(v.GetString("ai_provider")),
		AIAPIKey:          v.GetString("ai_api_key"),
		AIModel:           v.GetString("ai_model"),
		AIBaseURL:         v.GetString("ai_base_url"),
		AITimeout:         v.GetDuration("ai_timeout"),
		AIRetryMax:        v.GetInt("ai_retry_max"),
	}, nil
}

// requireDatabase checks the settings commands touching records need
func requireDatabase(cfg *config.Config) error {
	if cfg.DBDatabase == "" {
		return fmt.Errorf("db_database (DB_DATABASE) is required for this command")
	}
	return nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
