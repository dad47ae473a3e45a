package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	Auth struct {
		// AdminSecretHash is the bcrypt hash of the admin secret key.
		AdminSecretHash string
		// JWTSecret signs admin and voter session tokens.
		JWTSecret string
		// IdentitySecret verifies tokens minted by the federated identity
		// gateway. The gateway protocol itself is outside this service.
		IdentitySecret string
		SessionTTL     time.Duration
		OTPTTL         time.Duration
		OTPMaxAttempts int
	}

	Voters struct {
		// DefaultCountryCode is prefixed to phone numbers entered without one.
		DefaultCountryCode string
	}

	Upload struct {
		Dir         string
		MaxFileSize int64
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "urna")
	config.DB.Password = getEnv("DB_PASSWORD", "urna_password")
	config.DB.Name = getEnv("DB_NAME", "urna_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	// Default hash corresponds to "admin123", the development-only secret.
	config.Auth.AdminSecretHash = getEnv("ADMIN_SECRET_HASH",
		"$2b$12$wAxhNcH/ahTxQjWOJ3u4JectTFGgypaE3v9MqiyofH.dklw/AtCSe")
	config.Auth.JWTSecret = getEnv("JWT_SECRET", "urna_dev_secret")
	config.Auth.IdentitySecret = getEnv("IDENTITY_SECRET", config.Auth.JWTSecret)
	config.Auth.SessionTTL = getEnvAsDuration("SESSION_TTL", 24*time.Hour)
	config.Auth.OTPTTL = getEnvAsDuration("OTP_TTL", 5*time.Minute)
	config.Auth.OTPMaxAttempts = int(getEnvAsInt64("OTP_MAX_ATTEMPTS", 3))

	config.Voters.DefaultCountryCode = getEnv("DEFAULT_COUNTRY_CODE", "+91")

	config.Upload.Dir = getEnv("UPLOADS_DIR", "./uploads")
	config.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 10485760)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
