package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	DBName            string
	RecipesCollection string
	RunsCollection    string
	Port              string
	GinMode           string
	CORSOrigins       []string

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Admin API auth
	AdminJWTSecret string

	// Vector search
	VectorIndexName  string
	VectorField      string
	VectorDimensions int
	VectorSimilarity string

	// Backfill
	BackfillBatchSize int

	// Embeddings configuration
	EmbeddingsProvider    string // "openai" (default), "google"
	OpenAIAPIKey          string
	OpenAIEmbeddingsModel string
	GeminiAPIKey          string
	GoogleEmbeddingsModel string
	EmbeddingCacheTTL     int // seconds; 0 disables the query-embedding cache

	// Chat completion
	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int

	// Telemetry
	OTLPEndpoint   string
	TracingEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017/recipe_search"),
		DBName:            getEnv("DB_NAME", "recipe_search"),
		RecipesCollection: getEnv("RECIPES_COLLECTION", "recipes"),
		RunsCollection:    getEnv("BACKFILL_RUNS_COLLECTION", "backfill_runs"),
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		CORSOrigins:       strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		// Vector search
		VectorIndexName:  getEnv("VECTOR_INDEX_NAME", "recipes_vector_index"),
		VectorField:      getEnv("VECTOR_FIELD", "vector"),
		VectorDimensions: getEnvInt("VECTOR_DIM", 1536),
		VectorSimilarity: getEnv("VECTOR_SIMILARITY", "cosine"),

		BackfillBatchSize: getEnvInt("BACKFILL_BATCH_SIZE", 50),

		// Embeddings
		EmbeddingsProvider:    getEnv("EMBEDDINGS_PROVIDER", "openai"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIEmbeddingsModel: getEnv("OPENAI_EMBEDDINGS_MODEL", "text-embedding-ada-002"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		EmbeddingCacheTTL:     getEnvInt("EMBEDDING_CACHE_TTL", 3600),

		// Chat completion
		ChatModel:       getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		ChatTemperature: getEnvFloat64("CHAT_TEMPERATURE", 0.7),
		ChatMaxTokens:   getEnvInt("CHAT_MAX_TOKENS", 1024),

		// Telemetry
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
	}

	// Validate required fields
	if cfg.AdminJWTSecret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET is required - set it in .env file")
	}

	switch cfg.EmbeddingsProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai embeddings provider")
		}
	case "google":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the google embeddings provider")
		}
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", cfg.EmbeddingsProvider)
	}

	if cfg.VectorDimensions <= 0 {
		return nil, fmt.Errorf("VECTOR_DIM must be positive")
	}

	if cfg.BackfillBatchSize <= 0 {
		cfg.BackfillBatchSize = 50
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
