package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	OpenAI    OpenAIConfig
	Gmail     GmailConfig
	Assistant AssistantConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Path string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

type AssistantConfig struct {
	MaxEmailsPerRun int
	MaxRunSeconds   int
	PollSeconds     int
	MailWorkers     int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./propmatch.db"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		},
		Gmail: GmailConfig{
			ClientID:     getEnv("GMAIL_CLIENT_ID", ""),
			ClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
			RefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		},
		Assistant: AssistantConfig{
			MaxEmailsPerRun: getEnvAsInt("MAX_EMAILS_PER_RUN", 5),
			MaxRunSeconds:   getEnvAsInt("MAX_RUN_SECONDS", 300),
			PollSeconds:     getEnvAsInt("POLL_INTERVAL_SECONDS", 60),
			MailWorkers:     getEnvAsInt("MAIL_WORKERS", 1),
		},
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

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
