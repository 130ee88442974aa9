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
	Session  SessionConfig
	Keys     APIKeys
	Ai       AIConfig
	Paths    PathConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	TranscriptLogPath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	StreamDelay        time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type APIKeys struct {
	GoogleGemini string
	Anthropic    string
	OpenAI       string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama", "gemini" or "jina"
	EmbeddingModel    string
	OllamaBaseURL     string
	LLMProvider       string // "ollama", "openai", "anthropic"
	LLMBaseURL        string
	LLMModel          string
	MaxAttempts       int

	// Per-role overrides, empty means LLMModel
	GenericModel    string
	QueryAgentModel string
	ValidatorModel  string
	PolicyModel     string
}

type PathConfig struct {
	QuestionsFile string
	CorpusFile    string
	TemplateFile  string
	PromptsFile   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			TranscriptLogPath:  getEnv("TRANSCRIPT_LOG_PATH", "logs/transcript.log"),
			CorsAllowedOrigins: getEnv("FRONTEND_URL", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			StreamDelay:        time.Duration(getEnvAsInt("STREAM_DELAY_MS", 50)) * time.Millisecond,
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			TTL:   time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Anthropic:    getEnv("ANTHROPIC_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			MaxAttempts:       getEnvAsInt("LLM_MAX_ATTEMPTS", 2),
			GenericModel:      getEnv("GENERIC_MODEL", ""),
			QueryAgentModel:   getEnv("QUERY_AGENT_MODEL", ""),
			ValidatorModel:    getEnv("VALIDATOR_AGENT_MODEL", ""),
			PolicyModel:       getEnv("POLICY_GENERATOR_MODEL", ""),
		},
		Paths: PathConfig{
			QuestionsFile: getEnv("POLICY_JSON_PATH", "data/policy_questions.json"),
			CorpusFile:    getEnv("GENERIC_JSON_PATH", "data/generic_corpus.json"),
			TemplateFile:  getEnv("POLICY_TEMPLATE_PATH", "data/policy_template.md"),
			PromptsFile:   getEnv("PROMPTS_FILE", "config.yaml"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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
