package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Bank     BankConfig
	Scoring  ScoringConfig
	Worker   WorkerConfig
	Audit    AuditConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL            string
	APIKey         string
	Collection     string
	ScoreThreshold float32
}

type GeminiConfig struct {
	APIKey string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type BankConfig struct {
	QuestionBankPath string
	TaxonomyPath     string
	RetrieveLimit    int
}

// ScoringConfig holds the hybrid scoring weights. RubricWeight and
// SemanticWeight must sum to 1.
type ScoringConfig struct {
	RubricWeight   float64
	SemanticWeight float64
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

type AuditConfig struct {
	LogPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_coach"),
		},
		Qdrant: QdrantConfig{
			URL:            getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:         getEnv("QDRANT_API_KEY", ""),
			Collection:     getEnv("QDRANT_COLLECTION", "reference_answers"),
			ScoreThreshold: float32(getEnvAsFloat("QDRANT_SCORE_THRESHOLD", 0.95)),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Bank: BankConfig{
			QuestionBankPath: getEnv("QUESTION_BANK_PATH", "./config/question_bank.yml"),
			TaxonomyPath:     getEnv("SKILL_TAXONOMY_PATH", "./config/skill_taxonomy.yml"),
			RetrieveLimit:    getEnvAsInt("RETRIEVE_LIMIT", 6),
		},
		Scoring: ScoringConfig{
			RubricWeight:   getEnvAsFloat("SCORING_RUBRIC_WEIGHT", 0.6),
			SemanticWeight: getEnvAsFloat("SCORING_SEMANTIC_WEIGHT", 0.4),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 3),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
		},
		Audit: AuditConfig{
			LogPath: getEnv("AUDIT_LOG_PATH", "./audit_log.jsonl"),
		},
	}
}

// Validate rejects configurations that would break the scoring invariant
// final = w_r*rubric + w_s*semantic with w_r + w_s = 1.
func (c *Config) Validate() error {
	sum := c.Scoring.RubricWeight + c.Scoring.SemanticWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1, got %.4f", sum)
	}
	if c.Scoring.RubricWeight < 0 || c.Scoring.SemanticWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if c.Worker.RetryMaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1")
	}
	if c.Bank.RetrieveLimit < 1 {
		return fmt.Errorf("retrieve limit must be at least 1")
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
