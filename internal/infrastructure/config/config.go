package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 後端類型
const (
	DocumentBackendREST   = "rest"
	DocumentBackendMemory = "memory"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendBadger = "badger"
)

// Config 應用配置
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	DocumentStore DocumentStoreConfig `mapstructure:"document_store"`
	Session       SessionConfig       `mapstructure:"session"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	DedupWindow   time.Duration       `mapstructure:"dedup_window"`
	LogLevel      string              `mapstructure:"log_level"`
	LogDir        string              `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// DocumentStoreConfig 外部文件庫設定
type DocumentStoreConfig struct {
	Backend           string        `mapstructure:"backend"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	SeedFile          string        `mapstructure:"seed_file"`
	RecipesCollection string        `mapstructure:"recipes_collection"`
	UsersCollection   string        `mapstructure:"users_collection"`
	ReviewsCollection string        `mapstructure:"reviews_collection"`
	RatingConcurrency int           `mapstructure:"rating_concurrency"`
	Breaker           BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig 斷路器設定
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// SessionConfig 搜尋狀態儲存設定
type SessionConfig struct {
	Backend         string        `mapstructure:"backend"`
	CookieName      string        `mapstructure:"cookie_name"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxSize         int           `mapstructure:"max_size"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	Redis           RedisConfig   `mapstructure:"redis"`
	Badger          BadgerConfig  `mapstructure:"badger"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BadgerConfig BadgerDB 設定
type BadgerConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// MetricsConfig Prometheus 設定
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoadConfig 載入設定（.env 不存在時只使用環境變數與預設值）
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("document_store.backend", "APP_DOCUMENT_STORE_BACKEND", "DOCUMENT_STORE_BACKEND")
	v.BindEnv("document_store.base_url", "APP_DOCUMENT_STORE_BASE_URL", "DOCUMENT_STORE_URL")
	v.BindEnv("document_store.api_key", "APP_DOCUMENT_STORE_API_KEY", "DOCUMENT_STORE_API_KEY")
	v.BindEnv("document_store.seed_file", "APP_DOCUMENT_STORE_SEED_FILE", "DOCUMENT_SEED_FILE")
	v.BindEnv("session.backend", "APP_SESSION_BACKEND", "SESSION_BACKEND")
	v.BindEnv("session.redis.addr", "APP_SESSION_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("session.redis.password", "APP_SESSION_REDIS_PASSWORD", "REDIS_PASSWORD")
	v.BindEnv("session.badger.path", "APP_SESSION_BADGER_PATH", "BADGER_PATH")
	v.BindEnv("rate_limit.enabled", "APP_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "APP_RATE_LIMIT_REQUESTS", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "APP_RATE_LIMIT_WINDOW", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "APP_DEDUP_WINDOW", "DEDUP_WINDOW")
	v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskSecret 遮罩密鑰，只顯示前後各 4 個字符
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-discovery")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// 文件庫設定
	v.SetDefault("document_store.backend", DocumentBackendMemory)
	v.SetDefault("document_store.timeout", "10s")
	v.SetDefault("document_store.recipes_collection", "Recipes")
	v.SetDefault("document_store.users_collection", "users")
	v.SetDefault("document_store.reviews_collection", "reviews")
	v.SetDefault("document_store.rating_concurrency", 8)
	v.SetDefault("document_store.breaker.max_requests", 1)
	v.SetDefault("document_store.breaker.interval", "60s")
	v.SetDefault("document_store.breaker.timeout", "30s")
	v.SetDefault("document_store.breaker.failure_threshold", 5)

	// session 設定
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.cookie_name", "session_id")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.cleanup_interval", "10m")
	v.SetDefault("session.max_size", 10000)
	v.SetDefault("session.key_prefix", "recipe-discovery:")
	v.SetDefault("session.redis.addr", "localhost:6379")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("session.badger.path", "data/sessions")
	v.SetDefault("session.badger.in_memory", false)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// metrics 設定
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid server request timeout")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server max body bytes")
	}

	switch config.DocumentStore.Backend {
	case DocumentBackendREST:
		if config.DocumentStore.BaseURL == "" {
			return fmt.Errorf("document store base url is required for rest backend")
		}
		if config.DocumentStore.Timeout <= 0 {
			return fmt.Errorf("invalid document store timeout")
		}
	case DocumentBackendMemory:
	default:
		return fmt.Errorf("unknown document store backend %q", config.DocumentStore.Backend)
	}
	if config.DocumentStore.RecipesCollection == "" || config.DocumentStore.UsersCollection == "" {
		return fmt.Errorf("document store collections are required")
	}
	if config.DocumentStore.RatingConcurrency <= 0 {
		return fmt.Errorf("invalid rating concurrency")
	}

	switch config.Session.Backend {
	case SessionBackendMemory:
		if config.Session.MaxSize <= 0 {
			return fmt.Errorf("invalid session max size")
		}
		if config.Session.CleanupInterval <= 0 {
			return fmt.Errorf("invalid session cleanup interval")
		}
	case SessionBackendRedis:
		if config.Session.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for redis session backend")
		}
	case SessionBackendBadger:
		if !config.Session.Badger.InMemory && config.Session.Badger.Path == "" {
			return fmt.Errorf("badger path is required for badger session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", config.Session.Backend)
	}
	if config.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl")
	}
	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
