package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Session  SessionConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host            string
	Port            int
	Email           string
	Password        string
	SenderName      string
	NotifyRecipient string
}

type SessionConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

type AIConfig struct {
	KnowledgeTopic string // RAG mode is specialized on this topic

	EmbeddingProvider string // "gemini", "ollama" or "jina"
	EmbeddingAPIKey   string
	OllamaBaseURL     string
	OllamaEmbedModel  string

	LLMProvider     string // "groq", "ollama" or "huggingface"
	LLMModel        string
	ClassifierModel string
	GroqAPIKey      string
	GroqBaseURL     string
	HFAPIKey        string
	HFBaseURL       string

	SearchTopK      int
	SearchThreshold float64

	EmbedDocumentTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:           getEnv("SMTP_HOST", ""),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Email:          getEnv("SMTP_EMAIL", ""),
			Password:       getEnv("SMTP_PASSWORD", ""),
			SenderName:     getEnv("SMTP_SENDER_NAME", "Hybrid Chatbot"),
			NotifyRecipient: getEnv("SMTP_NOTIFY_RECIPIENT", ""),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "memory"),
			TTL:     time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
		Ai: AIConfig{
			KnowledgeTopic: getEnv("KNOWLEDGE_TOPIC", "Jordan Peterson"),

			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),

			LLMProvider:     getEnv("LLM_PROVIDER", "groq"),
			LLMModel:        getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			ClassifierModel: getEnv("CLASSIFIER_MODEL", "llama-3.1-8b-instant"),
			GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:     getEnv("GROQ_BASE_URL", ""),
			HFAPIKey:        getEnv("HF_API_KEY", ""),
			HFBaseURL:       getEnv("HF_BASE_URL", ""),

			SearchTopK:      getEnvAsInt("SEARCH_TOP_K", 3),
			SearchThreshold: getEnvAsFloat("SEARCH_THRESHOLD", 0.0),

			EmbedDocumentTopic: getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT_CONTENT"),
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
