package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env           string
	AppSecret     string
	DatabaseURL   string
	JWTExpiry     time.Duration
	Port          string
	SiteName      string
	SiteUrl       string
	RedisAddr     string // 为空时不启用 Redis
	RedisPassword string
	LogLevel      string
	LogFormat     string
	HomeCacheTTL  time.Duration
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))
	homeCacheMinutes, _ := strconv.Atoi(getEnv("HOME_CACHE_MINUTES", "5"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "streamflix")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	env := getEnv("APP_ENV", "development")
	logFormat := "console"
	if env == "production" {
		logFormat = "json"
	}

	return &Config{
		Env:           env,
		AppSecret:     getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret)),
		DatabaseURL:   dbURL,
		JWTExpiry:     time.Duration(expiryHours) * time.Hour,
		Port:          getEnv("PORT", "8000"),
		SiteName:      getEnv("SITE_NAME", "Streamflix"),
		SiteUrl:       getEnv("SITE_URL", "http://localhost:8000"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", logFormat),
		HomeCacheTTL:  time.Duration(homeCacheMinutes) * time.Minute,
	}
}

// UsesDefaultSecret 是否仍在使用默认密钥
func (c *Config) UsesDefaultSecret() bool {
	return c.AppSecret == defaultSecret
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
