package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration, loaded from a YAML file
// with environment variable overrides.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	CORS          CORSConfig          `yaml:"cors"`
	SMS           SMSConfig           `yaml:"sms"`
	Storage       StorageConfig       `yaml:"storage"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Upload        UploadConfig        `yaml:"upload"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DatabaseConfig holds MySQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Params   string `yaml:"params"`
}

// DSN builds the MySQL connection string
func (d DatabaseConfig) DSN() string {
	params := d.Params
	if params == "" {
		params = "charset=utf8mb4&parseTime=True&loc=Local"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", d.User, d.Password, d.Host, d.Port, d.Name, params)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig holds token settings (expiries in seconds)
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"`
	RefreshIn int    `yaml:"refresh_in"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// SMSConfig holds verification code settings.
// Provider: "aliyun" for real delivery, "log" to print codes to the log.
// DevCode, when non-empty, is accepted as a valid code for any phone;
// it must stay empty in production.
type SMSConfig struct {
	Provider        string `yaml:"provider"`
	AccessKeyID     string `yaml:"access_key_id"`
	AccessKeySecret string `yaml:"access_key_secret"`
	SignName        string `yaml:"sign_name"`
	TemplateCode    string `yaml:"template_code"`
	DevCode         string `yaml:"dev_code"`
}

// StorageConfig holds S3-compatible storage settings
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	LocalDir        string `yaml:"local_dir"`
	LocalBaseURL    string `yaml:"local_base_url"`
}

// ElasticsearchConfig holds search settings
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
}

// RateLimitConfig holds API rate limit settings
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes"`
}

// Load reads the YAML config file and applies environment overrides
func Load(path string) (*Config, error) {
	cfg := defaults()

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, Env: "local"},
		Database: DatabaseConfig{Host: "127.0.0.1", Port: 3306, User: "root", Name: "sunset_memories"},
		Redis:    RedisConfig{Host: "127.0.0.1", Port: 6379, PoolSize: 10},
		JWT:      JWTConfig{ExpiresIn: 900, RefreshIn: 7 * 24 * 3600},
		CORS:     CORSConfig{AllowOrigins: "http://localhost:3000"},
		SMS:      SMSConfig{Provider: "log"},
		Storage: StorageConfig{
			LocalDir:     "uploads",
			LocalBaseURL: "http://localhost:8080/uploads",
		},
		RateLimit: RateLimitConfig{RequestsPerMinute: 120},
		Upload:    UploadConfig{MaxSizeBytes: 10 << 20},
	}
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Env, "APP_ENV")
	overrideInt(&cfg.Server.Port, "PORT")

	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")

	overrideString(&cfg.Redis.Host, "REDIS_HOST")
	overrideInt(&cfg.Redis.Port, "REDIS_PORT")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&cfg.Redis.DB, "REDIS_DB")

	overrideString(&cfg.JWT.Secret, "JWT_SECRET")
	overrideInt(&cfg.JWT.ExpiresIn, "JWT_EXPIRES_IN")
	overrideInt(&cfg.JWT.RefreshIn, "JWT_REFRESH_IN")

	overrideString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")

	overrideString(&cfg.SMS.Provider, "SMS_PROVIDER")
	overrideString(&cfg.SMS.AccessKeyID, "SMS_ACCESS_KEY_ID")
	overrideString(&cfg.SMS.AccessKeySecret, "SMS_ACCESS_KEY_SECRET")
	overrideString(&cfg.SMS.SignName, "SMS_SIGN_NAME")
	overrideString(&cfg.SMS.TemplateCode, "SMS_TEMPLATE_CODE")
	overrideString(&cfg.SMS.DevCode, "SMS_DEV_CODE")

	overrideBool(&cfg.Storage.Enabled, "STORAGE_ENABLED")
	overrideString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	overrideString(&cfg.Storage.Region, "STORAGE_REGION")
	overrideString(&cfg.Storage.AccessKeyID, "STORAGE_ACCESS_KEY_ID")
	overrideString(&cfg.Storage.SecretAccessKey, "STORAGE_SECRET_ACCESS_KEY")
	overrideString(&cfg.Storage.Bucket, "STORAGE_BUCKET")

	overrideBool(&cfg.Elasticsearch.Enabled, "ES_ENABLED")
	overrideString(&cfg.Elasticsearch.Username, "ES_USERNAME")
	overrideString(&cfg.Elasticsearch.Password, "ES_PASSWORD")
	if v := os.Getenv("ES_ADDRESSES"); v != "" {
		cfg.Elasticsearch.Addresses = []string{v}
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
