package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
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

type SMTPConfig struct {
	Host     string
	Port     int
	Email    string
	Password string
	// CareTeamEmails is the comma-separated recipient list for urgent
	// triage alerts. Empty disables alert mail.
	CareTeamEmails string
}

type APIKeys struct {
	Grok string
	// IndexChunkTopic is the watermill topic carrying chunk index
	// requests from ingestion to the embedding consumer.
	IndexChunkTopic string
}

type AIConfig struct {
	LLMProvider       string // "grok", "ollama" or "mock"
	LLMModel          string
	GrokBaseURL       string
	EmbeddingProvider string // "ollama" or "hashing"
	EmbeddingDims     int
	OllamaBaseURL     string
	OllamaModel       string
	RetrievalTopK     int
	// SimilarityThreshold drops chunks below this cosine similarity.
	SimilarityThreshold float64
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:           getEnv("SMTP_HOST", ""),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Email:          getEnv("SMTP_EMAIL", ""),
			Password:       getEnv("SMTP_PASSWORD", ""),
			CareTeamEmails: getEnv("CARE_TEAM_EMAILS", ""),
		},
		Keys: APIKeys{
			Grok:            getEnv("GROK_API_KEY", ""),
			IndexChunkTopic: getEnv("INDEX_CHUNK_TOPIC_NAME", "INDEX_KNOWLEDGE_CHUNK"),
		},
		Ai: AIConfig{
			LLMProvider:         getEnv("LLM_PROVIDER", "grok"),
			LLMModel:            getEnv("LLM_MODEL", "grok-beta"),
			GrokBaseURL:         getEnv("GROK_BASE_URL", "https://api.x.ai"),
			EmbeddingProvider:   getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingDims:       getEnvAsInt("EMBEDDING_DIMS", 768),
			OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:         getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			RetrievalTopK:       getEnvAsInt("RETRIEVAL_TOP_K", 5),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.0),
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
