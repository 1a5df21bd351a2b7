package config

import (
	"os"
)

type AppConfig struct {
	Env       string // development, testing or production
	Port      string
	JWTSecret string
	LogLevel  string
	LogFormat string
}

type DatabaseConfig struct {
	Driver string // sqlite or postgres
	DSN    string
}

type AfricaTalkingConfig struct {
	Username string
	APIKey   string
	SMSURL   string
	SenderID string
}

type EmailConfig struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	SenderEmail        string
}

func LoadAppConfig() AppConfig {
	return AppConfig{
		Env:       getEnvOrDefault("APP_ENV", "development"),
		Port:      getEnvOrDefault("PORT", "8080"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", "change-me"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// LoadDatabaseConfig picks the storage location for the given environment:
// local sqlite files for development and testing, a postgres DSN from the
// environment for production.
func LoadDatabaseConfig(env string) DatabaseConfig {
	switch env {
	case "production":
		return DatabaseConfig{
			Driver: "postgres",
			DSN:    os.Getenv("DATABASE_URL"),
		}
	case "testing":
		return DatabaseConfig{
			Driver: "sqlite",
			DSN:    getEnvOrDefault("SQLITE_PATH", "testing.db"),
		}
	default:
		return DatabaseConfig{
			Driver: "sqlite",
			DSN:    getEnvOrDefault("SQLITE_PATH", "mechanic_shop.db"),
		}
	}
}

func LoadAfricaTalkingConfig() AfricaTalkingConfig {
	return AfricaTalkingConfig{
		Username: os.Getenv("AT_USERNAME"),
		APIKey:   os.Getenv("AT_API_KEY"),
		SMSURL:   getEnvOrDefault("AT_SMS_URL", "https://api.sandbox.africastalking.com/version1/messaging"), // Sandbox URL
		SenderID: getEnvOrDefault("AT_SENDER_ID", "AFRICASTKNG"), // Default sandbox sender ID
	}
}

func LoadEmailConfig() EmailConfig {
	return EmailConfig{
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
		SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
