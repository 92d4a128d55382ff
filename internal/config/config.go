package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/infrastructure/database"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Database  *database.DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Approval  ApprovalConfig
	Job       JobConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Email     EmailConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	BaseURL     string // public base URL, used for feed links
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

// =====================================================
// OBJECT STORAGE
// =====================================================

// StorageConfig describes the two S3 locations used by the publication pipeline.
// TempBucket receives direct uploads; PermBucket serves published audio.
type StorageConfig struct {
	Endpoint        string // s3.<region>.amazonaws.com unless overridden (MinIO in dev)
	Region          string
	AccessKey       string
	SecretKey       string
	TempBucket      string
	PermBucket      string
	UseSSL          bool
	UploadURLExpiry time.Duration
}

// ApprovalConfig tunes the approval coordinator.
type ApprovalConfig struct {
	// PromotionConcurrency bounds parallel promotions per approval; 1 means sequential.
	PromotionConcurrency int
}

// JobConfig controls the storage cleanup jobs.
type JobConfig struct {
	TempObjectRetention time.Duration
	SweepCron           string
	DeleteMaxRetry      int
}

type RateLimitConfig struct {
	UploadURLPerSecond float64
	UploadURLBurst     int
	ContactPerSecond   float64
	ContactBurst       int
}

// EmailConfig is the SMTP relay used by the contact form worker.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	From         string
	ContactInbox string
	MaxRetry     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	region := getEnv("AWS_REGION", "us-east-1")

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Podcast Hub API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("AWS_S3_ENDPOINT", fmt.Sprintf("s3.%s.amazonaws.com", region)),
			Region:          region,
			AccessKey:       getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
			TempBucket:      getEnv("AWS_TEMP_BUCKET_NAME", ""),
			PermBucket:      getEnv("AWS_PREM_BUCKET_NAME", ""),
			UseSSL:          getEnvBool("AWS_S3_USE_SSL", true),
			UploadURLExpiry: getEnvDuration("UPLOAD_URL_EXPIRY", 5*time.Minute),
		},
		Approval: ApprovalConfig{
			PromotionConcurrency: getEnvInt("APPROVAL_PROMOTION_CONCURRENCY", 1),
		},
		Job: JobConfig{
			TempObjectRetention: getEnvDuration("TEMP_OBJECT_RETENTION", 24*time.Hour),
			SweepCron:           getEnv("TEMP_SWEEP_CRON", "0 * * * *"),
			DeleteMaxRetry:      getEnvInt("TEMP_DELETE_MAX_RETRY", 5),
		},
		RateLimit: RateLimitConfig{
			UploadURLPerSecond: getEnvFloat("UPLOAD_URL_RATE", 1),
			UploadURLBurst:     getEnvInt("UPLOAD_URL_BURST", 5),
			ContactPerSecond:   getEnvFloat("CONTACT_RATE", 0.05),
			ContactBurst:       getEnvInt("CONTACT_BURST", 3),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("FRONTEND_URL", "http://localhost:3000")),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "localhost"),
			SMTPPort:     getEnv("SMTP_PORT", "1025"),
			From:         getEnv("SMTP_FROM", "noreply@podcasthub.dev"),
			ContactInbox: getEnv("CONTACT_INBOX", "team@podcasthub.dev"),
			MaxRetry:     getEnvInt("CONTACT_EMAIL_MAX_RETRY", 3),
		},
	}

	dbConfig, err := LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	cfg.Database = dbConfig

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Approval.PromotionConcurrency < 1 {
		return fmt.Errorf("APPROVAL_PROMOTION_CONCURRENCY must be >= 1")
	}
	if c.Storage.UploadURLExpiry <= 0 {
		return fmt.Errorf("UPLOAD_URL_EXPIRY must be positive")
	}

	// Storage credentials may be empty only while developing against a local MinIO
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set in production")
		}
		if c.Storage.TempBucket == "" || c.Storage.PermBucket == "" {
			return fmt.Errorf("AWS_TEMP_BUCKET_NAME and AWS_PREM_BUCKET_NAME must be set in production")
		}
	} else if c.Storage.TempBucket == "" || c.Storage.PermBucket == "" {
		log.Warn().Msg("storage buckets not configured - upload and approval endpoints will fail")
	}

	return nil
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
