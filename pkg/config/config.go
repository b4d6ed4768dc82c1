package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Assembly   AssemblyConfig
	Groq       GroqConfig
	Embeddings EmbeddingsConfig
	Pipeline   PipelineConfig
	Similarity SimilarityConfig
	Epitaph    EpitaphConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int

	// AutoMigrate applies SQL migrations at startup. Development only.
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Type            string // "minio" or "s3"
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// AssemblyConfig holds AssemblyAI configuration
type AssemblyConfig struct {
	APIKey string
}

// GroqConfig holds Groq configuration for insight extraction. Models is the
// ordered fallback chain, primary first.
type GroqConfig struct {
	APIKey      string
	BaseURL     string
	Models      []string
	Temperature float64
	MaxTokens   int
}

// EmbeddingsConfig holds configuration for the embeddings endpoint
type EmbeddingsConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	CacheTTL   time.Duration
}

// PipelineConfig holds processing pipeline tunables
type PipelineConfig struct {
	PollInterval        time.Duration
	PollMaxAttempts     int
	TranscriptMaxChars  int
	PromptMaxChars      int
	ChainMaxAttempts    int
	ChainBaseDelay      time.Duration
	MediaURLExpiry      time.Duration
	JobRegistryTTL      time.Duration
}

// SimilarityConfig holds duplicate detection thresholds
type SimilarityConfig struct {
	DuplicateThreshold float64
	SoftThreshold      float64
	ChronicRepeats     int
	HistoryLimit       int
}

// EpitaphConfig holds graveyard batch tunables
type EpitaphConfig struct {
	GraveyardDays  int
	TTLDays        int
	TaskTruncation int
	ItemSleep      time.Duration
	PageSize       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "meetingmind"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),

			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "minio"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meetingmind-audio"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		Assembly: AssemblyConfig{
			APIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		Groq: GroqConfig{
			APIKey:      getEnv("GROQ_API_KEY", ""),
			BaseURL:     getEnv("GROQ_API_URL", "https://api.groq.com"),
			Models:      getEnvAsSlice("GROQ_MODELS", []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}),
			Temperature: getEnvAsFloat("GROQ_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("GROQ_MAX_TOKENS", 2000),
		},
		Embeddings: EmbeddingsConfig{
			APIKey:     getEnv("EMBEDDINGS_API_KEY", ""),
			BaseURL:    getEnv("EMBEDDINGS_API_URL", "https://api.openai.com"),
			Model:      getEnv("EMBEDDINGS_MODEL", "text-embedding-3-small"),
			Dimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1536),
			CacheTTL:   getEnvAsDuration("EMBEDDING_CACHE_TTL", "24h"),
		},
		Pipeline: PipelineConfig{
			PollInterval:       getEnvAsDuration("TRANSCRIBE_POLL_INTERVAL", "15s"),
			PollMaxAttempts:    getEnvAsInt("TRANSCRIBE_MAX_ATTEMPTS", 48),
			TranscriptMaxChars: getEnvAsInt("TRANSCRIPT_TRUNCATION_CHARS", 5000),
			PromptMaxChars:     getEnvAsInt("PROMPT_TRUNCATION_CHARS", 15000),
			ChainMaxAttempts:   getEnvAsInt("CHAIN_MAX_ATTEMPTS", 2),
			ChainBaseDelay:     getEnvAsDuration("CHAIN_BASE_DELAY", "1s"),
			MediaURLExpiry:     getEnvAsDuration("MEDIA_URL_EXPIRY", "2h"),
			JobRegistryTTL:     getEnvAsDuration("JOB_REGISTRY_TTL", "24h"),
		},
		Similarity: SimilarityConfig{
			DuplicateThreshold: getEnvAsFloat("DUPLICATE_SIMILARITY_THRESHOLD", 0.85),
			SoftThreshold:      getEnvAsFloat("SOFT_SIMILARITY_THRESHOLD", 0.70),
			ChronicRepeats:     getEnvAsInt("CHRONIC_REPEAT_THRESHOLD", 3),
			HistoryLimit:       getEnvAsInt("SIMILARITY_HISTORY_LIMIT", 10),
		},
		Epitaph: EpitaphConfig{
			GraveyardDays:  getEnvAsInt("GRAVEYARD_THRESHOLD_DAYS", 30),
			TTLDays:        getEnvAsInt("EPITAPH_TTL_DAYS", 7),
			TaskTruncation: getEnvAsInt("EPITAPH_TASK_TRUNCATION", 80),
			ItemSleep:      getEnvAsDuration("EPITAPH_ITEM_SLEEP", "1s"),
			PageSize:       getEnvAsInt("EPITAPH_PAGE_SIZE", 100),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if len(c.Groq.Models) == 0 {
		return fmt.Errorf("GROQ_MODELS must name at least one model")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
