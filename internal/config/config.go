package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ai        AIConfig
	Chat      ChatConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	EventsLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

type AIConfig struct {
	LLMProvider       string // "openrouter" or "ollama"
	LLMModel          string
	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	AppTitle          string
	OllamaBaseURL     string
	MaxTokens         int
	Temperature       float64
	Timeout           time.Duration
	ModelCatalogTTL   time.Duration
}

type ChatConfig struct {
	TurnLock     string // "none", "local" or "redis"
	TurnLockTTL  time.Duration
	TurnLockWait time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	clientURL := getEnv("CLIENT_URL", "http://localhost:3000")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5000"),
			ClientURL:          clientURL,
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			EventsLogFilePath:  getEnv("EVENTS_LOG_FILE_PATH", "logs/events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", clientURL),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openrouter"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
			AppTitle:          getEnv("OPENROUTER_APP_TITLE", "Accio AI Playground"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 2000),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			Timeout:           getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			ModelCatalogTTL:   getEnvAsDuration("MODEL_CATALOG_TTL", 10*time.Minute),
		},
		Chat: ChatConfig{
			TurnLock:     getEnv("CHAT_TURN_LOCK", "none"),
			TurnLockTTL:  getEnvAsDuration("CHAT_TURN_LOCK_TTL", 3*time.Minute),
			TurnLockWait: getEnvAsDuration("CHAT_TURN_LOCK_WAIT", 30*time.Second),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnv("OTEL_ENABLED", "false") == "true",
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "accio-playground-be"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// Accepts Go duration strings ("90s", "5m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
