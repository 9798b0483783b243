package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string
	Domains      []string
	CertCacheDir string
	HTTPPort     string
	HTTPSPort    string

	DatabaseURL string
	UploadDir   string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	OpenAIAPIKey    string
	EmbeddingModel  string
	GenerationLLM   string // "openai" or "anthropic"
	GenerationModel string
	AnthropicAPIKey string

	IngestWorkers    int
	IngestQueueSize  int
	JobRetention     time.Duration
	IndexMaintenance time.Duration
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		Domains:      []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir: getEnv("CERT_CACHE_DIR", "/etc/letsencrypt/live/example.com"),
		HTTPPort:     getEnv("HTTP_PORT", "8000"),
		HTTPSPort:    getEnv("HTTPS_PORT", "443"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),

		ChunkSize:    getEnvAsInt("CHUNK_SIZE", 500),
		ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 50),
		TopK:         getEnvAsInt("TOP_K", 5),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		GenerationLLM:   getEnv("GENERATION_LLM", "openai"),
		GenerationModel: getEnv("GENERATION_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		IngestWorkers:    getEnvAsInt("INGEST_WORKERS", 4),
		IngestQueueSize:  getEnvAsInt("INGEST_QUEUE_SIZE", 64),
		JobRetention:     time.Duration(getEnvAsInt("JOB_RETENTION_HOURS", 24)) * time.Hour,
		IndexMaintenance: time.Duration(getEnvAsInt("INDEX_MAINTENANCE_SECONDS", 3600)) * time.Second,
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
