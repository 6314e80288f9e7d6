package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type AssistantConfig struct {
	// BackendURL is the websocket endpoint of the assistant backend.
	BackendURL string
	// AllowedCommands overrides the default sandboxed query whitelist when
	// non-empty (comma-separated).
	AllowedCommands []string
	// QueryReplyMaxResults caps the top-level element count of a shaped
	// query reply; QueryReplyMaxNested caps nested arrays.
	QueryReplyMaxResults int
	QueryReplyMaxNested  int
	// TurnCompletedTopic is the internal bus topic for finished turns.
	TurnCompletedTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Assistant: AssistantConfig{
			BackendURL:           getEnv("ASSISTANT_BACKEND_URL", "ws://localhost:8080/api/v1/assistant"),
			AllowedCommands:      getEnvAsList("ASSISTANT_ALLOWED_COMMANDS"),
			QueryReplyMaxResults: getEnvAsInt("ASSISTANT_QUERY_MAX_RESULTS", 0),
			QueryReplyMaxNested:  getEnvAsInt("ASSISTANT_QUERY_MAX_NESTED", 0),
			TurnCompletedTopic:   getEnv("TURN_COMPLETED_TOPIC_NAME", "CONVERSATION_TURN_COMPLETED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
