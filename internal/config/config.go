package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"creator-planner-backend/pkg/retry"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	OpenAI   OpenAIConfig
	Retry    RetryConfig
	RemoveBG RemoveBGConfig
	Fonts    FontsConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

// Store backends
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"

	ThumbnailBackendDocstore = "docstore"
	ThumbnailBackendMinIO    = "minio"
)

// StoreConfig chọn persistence backend cho ideas/settings và thumbnails
type StoreConfig struct {
	Backend           string // memory | postgres
	ThumbnailBackend  string // docstore | minio
	MaxDocumentBytes  int    // primary store từ chối document lớn hơn giới hạn này
	ThumbnailMaxBytes int    // giới hạn riêng của thumbnail tier (docstore backend), 0 = không giới hạn
	FallbackCacheSize int    // số thumbnail tối đa giữ trong LRU fallback cache
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Enabled   bool
	Endpoint  string // localhost:9000
	AccessKey string // minioadmin
	SecretKey string // minioadmin
	Bucket    string // creator-planner
	UseSSL    bool   // false for local
}

type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	TextModel    string
	ImageModels  []string // thử lần lượt, model sau là fallback của model trước
	TextTimeout  time.Duration
	ImageTimeout time.Duration
}

// placeholderOpenAIKey là giá trị mẫu trong .env.example
const placeholderOpenAIKey = "your_openai_api_key_here"

// Configured báo API key có dùng được không
func (c OpenAIConfig) Configured() bool {
	return c.APIKey != "" && c.APIKey != placeholderOpenAIKey
}

type RetryConfig struct {
	MaxAttempts int
	Base        float64
}

type RemoveBGConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type FontsConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
	Timeout  time.Duration
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Creator Planner API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend:           strings.ToLower(getEnv("STORE_BACKEND", StoreBackendMemory)),
			ThumbnailBackend:  strings.ToLower(getEnv("THUMBNAIL_BACKEND", ThumbnailBackendDocstore)),
			MaxDocumentBytes:  getEnvInt("STORE_MAX_DOCUMENT_BYTES", 1_048_576),
			ThumbnailMaxBytes: getEnvInt("THUMBNAIL_MAX_BYTES", 0),
			FallbackCacheSize: getEnvInt("THUMBNAIL_FALLBACK_CACHE_SIZE", 256),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "creator_planner"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Enabled:   getEnvBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "creator-planner"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		OpenAI: OpenAIConfig{
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			BaseURL:      getEnv("OPENAI_BASE_URL", ""),
			TextModel:    getEnv("OPENAI_TEXT_MODEL", "gpt-4o-mini"),
			ImageModels:  getEnvList("OPENAI_IMAGE_MODELS", []string{"dall-e-3", "dall-e-2"}),
			TextTimeout:  getEnvDuration("OPENAI_TEXT_TIMEOUT", 30*time.Second),
			ImageTimeout: getEnvDuration("OPENAI_IMAGE_TIMEOUT", 120*time.Second),
		},
		Retry: RetryConfig{
			MaxAttempts: getEnvInt("RETRY_MAX_ATTEMPTS", 3),
			Base:        getEnvFloat("RETRY_BACKOFF_BASE", 2),
		},
		RemoveBG: RemoveBGConfig{
			APIKey:  getEnv("REMOVE_BG_API_KEY", ""),
			BaseURL: getEnv("REMOVE_BG_BASE_URL", "https://api.remove.bg/v1.0"),
			Timeout: getEnvDuration("REMOVE_BG_TIMEOUT", 60*time.Second),
		},
		Fonts: FontsConfig{
			APIKey:   getEnv("GOOGLE_FONTS_API_KEY", ""),
			BaseURL:  getEnv("GOOGLE_FONTS_BASE_URL", "https://www.googleapis.com/webfonts/v1"),
			CacheTTL: getEnvDuration("FONTS_CACHE_TTL", 24*time.Hour),
			Timeout:  getEnvDuration("FONTS_TIMEOUT", 10*time.Second),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "static/uploads"),
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 16*1024*1024)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
// Thiếu credential không phải lỗi: các route sẽ degrade về placeholder
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendPostgres:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Store.ThumbnailBackend {
	case ThumbnailBackendDocstore:
	case ThumbnailBackendMinIO:
		if !c.MinIO.Enabled {
			return fmt.Errorf("THUMBNAIL_BACKEND=minio requires MINIO_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown THUMBNAIL_BACKEND %q", c.Store.ThumbnailBackend)
	}

	if c.Store.MaxDocumentBytes <= 0 {
		return fmt.Errorf("STORE_MAX_DOCUMENT_BYTES must be positive")
	}
	if c.Store.ThumbnailMaxBytes < 0 {
		return fmt.Errorf("THUMBNAIL_MAX_BYTES must not be negative")
	}
	if c.Store.ThumbnailMaxBytes > 0 && c.Store.ThumbnailMaxBytes <= c.Store.MaxDocumentBytes {
		return fmt.Errorf("THUMBNAIL_MAX_BYTES must exceed STORE_MAX_DOCUMENT_BYTES")
	}
	if c.Store.FallbackCacheSize <= 0 {
		return fmt.Errorf("THUMBNAIL_FALLBACK_CACHE_SIZE must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be positive")
	}
	if c.Retry.Base <= 1 {
		return fmt.Errorf("RETRY_BACKOFF_BASE must be greater than 1")
	}
	if len(c.OpenAI.ImageModels) == 0 {
		return fmt.Errorf("OPENAI_IMAGE_MODELS must list at least one model")
	}

	if c.App.Environment == "production" && c.Store.Backend == StoreBackendPostgres && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD must be set in production")
	}

	return nil
}

// writeTimeoutMargin phần dư cho placeholder render và ghi response
const writeTimeoutMargin = 30 * time.Second

// ThumbnailChainBudget là thời gian tối đa của một request thumbnail khi mọi attempt
// đều timeout: mỗi model chạy MaxAttempts lần, giữa các lần là backoff với jitter tối đa.
func (c *Config) ThumbnailChainBudget() time.Duration {
	perModel := time.Duration(c.Retry.MaxAttempts) * c.OpenAI.ImageTimeout
	for attempt := 0; attempt < c.Retry.MaxAttempts-1; attempt++ {
		perModel += retry.Backoff(c.Retry.Base, attempt, 1)
	}
	return time.Duration(len(c.OpenAI.ImageModels)) * perModel
}

// WriteTimeout của HTTP server, luôn dài hơn ThumbnailChainBudget
func (c *Config) WriteTimeout() time.Duration {
	return c.ThumbnailChainBudget() + writeTimeoutMargin
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
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

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
