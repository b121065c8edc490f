package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Auth         AuthConfig
	OTP          OTPConfig
	Notification NotificationConfig
	LogLevel     string
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// OTPConfig 一次性驗證碼設定
type OTPConfig struct {
	Length  int
	Charset string // "alpha" 或 "numeric"
	TTL     time.Duration
	// Secret 為驗證碼摘要的金鑰，資料庫只保存摘要
	Secret string

	IssueLimit   int
	IssueWindow  time.Duration
	VerifyLimit  int
	VerifyWindow time.Duration
}

type NotificationConfig struct {
	// Driver: "memory" 或 "redis"
	Driver       string
	BufferSize   int
	MaxAttempts  int
	ClaimMinIdle time.Duration
}

const (
	CharsetAlpha   = "alpha"
	CharsetNumeric = "numeric"
)

var AppConfig *Config

// LoadEnvFile 載入 .env 檔；檔案不存在時忽略
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:       GetServerConfig(),
		Database:     GetDatabaseConfig(),
		Redis:        GetRedisConfig(),
		Auth:         GetAuthConfig(),
		OTP:          GetOTPConfig(),
		Notification: GetNotificationConfig(),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
		MaxConns: 25,
		MinConns: 1,
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   GetServerConfig(),
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth: AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
		OTP: OTPConfig{
			Length:       6,
			Charset:      CharsetAlpha,
			TTL:          15 * time.Minute,
			Secret:       "test-otp-secret",
			IssueLimit:   5,
			IssueWindow:  time.Minute,
			VerifyLimit:  5,
			VerifyWindow: 15 * time.Minute,
		},
		Notification: NotificationConfig{
			Driver:       "memory",
			BufferSize:   100,
			MaxAttempts:  3,
			ClaimMinIdle: time.Second,
		},
		LogLevel: "debug",
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "8080"),
		ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:8081",
			"http://localhost:3000",
			"https://logi-events.vercel.app",
		}),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
		MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", "change-me"),
		TokenTTL:  getEnvAsDuration("JWT_EXPIRATION", time.Hour),
	}
}

func GetOTPConfig() OTPConfig {
	return OTPConfig{
		Length:       getEnvAsInt("OTP_LENGTH", 6),
		Charset:      getEnv("OTP_CHARSET", CharsetAlpha),
		TTL:          getEnvAsDuration("OTP_TTL", 15*time.Minute),
		Secret:       getEnv("OTP_SECRET", "change-me-too"),
		IssueLimit:   getEnvAsInt("OTP_ISSUE_LIMIT", 5),
		IssueWindow:  getEnvAsDuration("OTP_ISSUE_WINDOW", 15*time.Minute),
		VerifyLimit:  getEnvAsInt("OTP_VERIFY_LIMIT", 10),
		VerifyWindow: getEnvAsDuration("OTP_VERIFY_WINDOW", 15*time.Minute),
	}
}

func GetNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Driver:       getEnv("NOTIFICATION_DRIVER", "redis"),
		BufferSize:   getEnvAsInt("NOTIFICATION_BUFFER", 1024),
		MaxAttempts:  getEnvAsInt("NOTIFICATION_MAX_ATTEMPTS", 5),
		ClaimMinIdle: getEnvAsDuration("NOTIFICATION_CLAIM_MIN_IDLE", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
