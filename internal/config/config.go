package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"nexus-rag-be/internal/constant"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Upload   UploadConfig
	Relay    RelayConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection        string
	SchemaDescription string // injected into the SQL-generation prompt
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
	OllamaBaseURL     string
	HuggingFaceAPIKey string
	HuggingFaceURL    string

	EmbeddingProvider string // "ollama" or "jina"
	EmbeddingModel    string
	JinaAPIKey        string

	RetrievalTopK int
	// Minimum seconds between answer-composition calls. Zero disables the
	// throttle.
	MinCallIntervalSec float64
}

type UploadConfig struct {
	Folder       string
	ChunkSize    int
	ChunkOverlap int
}

type RelayConfig struct {
	ChatCSVAPIKey  string
	ChatCSVBaseURL string
	GitHubToken    string
	GitHubOwner    string
	GitHubRepo     string
	GitHubBranch   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection:        getEnv("DB_CONNECTION_STRING", ""),
			SchemaDescription: getEnv("DB_SCHEMA_DESCRIPTION", constant.DefaultDatabaseDescription),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceAPIKey: getEnv("HF_API_KEY", ""),
			HuggingFaceURL:    getEnv("HF_BASE_URL", ""),

			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			JinaAPIKey:        getEnv("JINA_API_KEY", ""),

			RetrievalTopK:      getEnvAsInt("RETRIEVAL_TOP_K", 5),
			MinCallIntervalSec: getEnvAsFloat("LLM_MIN_CALL_INTERVAL_SEC", 30),
		},
		Upload: UploadConfig{
			Folder:       getEnv("UPLOAD_FOLDER", "./uploads"),
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		},
		Relay: RelayConfig{
			ChatCSVAPIKey:  getEnv("CHATCSV_API_KEY", ""),
			ChatCSVBaseURL: getEnv("CHATCSV_BASE_URL", ""),
			GitHubToken:    getEnv("GITHUB_TOKEN", ""),
			GitHubOwner:    getEnv("GITHUB_OWNER", ""),
			GitHubRepo:     getEnv("GITHUB_REPO", "datasets"),
			GitHubBranch:   getEnv("GITHUB_BRANCH", "main"),
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
