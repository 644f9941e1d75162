package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Model provider settings
	LLMProvider          string `json:"llm_provider"`
	OpenAIAPIKey         string `json:"-"` // Don't expose in JSON
	AnthropicAPIKey      string `json:"-"` // Don't expose in JSON
	GeminiAPIKey         string `json:"-"` // Don't expose in JSON
	LLMModel             string `json:"llm_model"`
	LLMTimeoutSeconds    int    `json:"llm_timeout_seconds"`
	LLMRequestsPerMinute int    `json:"llm_requests_per_minute"`

	// Pipeline settings
	MaxHeadlines           int    `json:"max_headlines"`
	MaxArticlesPerHeadline int    `json:"max_articles_per_headline"`
	MaxConcurrentHeadlines int    `json:"max_concurrent_headlines"`
	CacheDurationHours     int    `json:"cache_duration_hours"`
	GenerateSchedule       string `json:"generate_schedule"`
	SourcesFile            string `json:"sources_file"`

	// Report store settings
	ReportStore  string `json:"report_store"`
	ReportDir    string `json:"report_dir"`
	ReportBucket string `json:"report_bucket"`
	DatabaseURL  string `json:"-"` // Don't expose in JSON
	RedisURL     string `json:"-"` // Don't expose in JSON

	// Notifier settings
	SlackBotToken string `json:"-"` // Don't expose in JSON
	SlackChannel  string `json:"slack_channel"`
	KafkaBroker   string `json:"kafka_broker"`
	KafkaTopic    string `json:"kafka_topic"`

	// API settings
	APIAuthToken string `json:"-"` // Don't expose in JSON
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                   getEnvOrDefault("PORT", "8080"),
		Host:                   getEnvOrDefault("HOST", "0.0.0.0"),
		LLMProvider:            getEnvOrDefault("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:           getEnvOrDefault("OPENAI_API_KEY", ""),
		AnthropicAPIKey:        getEnvOrDefault("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:           getEnvOrDefault("GEMINI_API_KEY", ""),
		LLMModel:               getEnvOrDefault("LLM_MODEL", ""),
		LLMTimeoutSeconds:      getEnvOrDefaultInt("LLM_TIMEOUT_SECONDS", 120),
		LLMRequestsPerMinute:   getEnvOrDefaultInt("LLM_REQUESTS_PER_MINUTE", 30),
		MaxHeadlines:           getEnvOrDefaultInt("MAX_HEADLINES", 10),
		MaxArticlesPerHeadline: getEnvOrDefaultInt("MAX_ARTICLES_PER_HEADLINE", 6),
		MaxConcurrentHeadlines: getEnvOrDefaultInt("MAX_CONCURRENT_HEADLINES", 3),
		CacheDurationHours:     getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		GenerateSchedule:       getEnvOrDefault("GENERATE_SCHEDULE", "0 6 * * *"),
		SourcesFile:            getEnvOrDefault("SOURCES_FILE", ""),
		ReportStore:            getEnvOrDefault("REPORT_STORE", "file"),
		ReportDir:              getEnvOrDefault("REPORT_DIR", "daily_reports"),
		ReportBucket:           getEnvOrDefault("REPORT_BUCKET", "diderot-daily-reports"),
		DatabaseURL:            getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:               getEnvOrDefault("REDIS_URL", ""),
		SlackBotToken:          getEnvOrDefault("SLACK_BOT_TOKEN", ""),
		SlackChannel:           getEnvOrDefault("SLACK_CHANNEL", "#daily-digest"),
		KafkaBroker:            getEnvOrDefault("KAFKA_BROKER", ""),
		KafkaTopic:             getEnvOrDefault("KAFKA_TOPIC", "diderot.reports"),
		APIAuthToken:           getEnvOrDefault("API_AUTH_TOKEN", ""),
	}

	if config.LLMModel == "" {
		config.LLMModel = defaultModel(config.LLMProvider)
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "OpenAI API key is required"}
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return &ConfigError{Field: "ANTHROPIC_API_KEY", Message: "Anthropic API key is required"}
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required"}
		}
	default:
		return &ConfigError{Field: "LLM_PROVIDER", Message: "must be openai, anthropic or gemini"}
	}

	switch c.ReportStore {
	case "file", "gcs", "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return &ConfigError{Field: "DATABASE_URL", Message: "database URL is required for the postgres store"}
		}
	case "redis":
		if c.RedisURL == "" {
			return &ConfigError{Field: "REDIS_URL", Message: "redis URL is required for the redis store"}
		}
	default:
		return &ConfigError{Field: "REPORT_STORE", Message: "must be file, gcs, postgres, redis or memory"}
	}

	if c.SlackBotToken != "" && !strings.HasPrefix(c.SlackBotToken, "xoxb-") {
		return &ConfigError{Field: "SLACK_BOT_TOKEN", Message: "must start with xoxb-"}
	}
	if c.MaxHeadlines <= 0 {
		return &ConfigError{Field: "MAX_HEADLINES", Message: "must be positive"}
	}
	if c.MaxArticlesPerHeadline <= 0 {
		return &ConfigError{Field: "MAX_ARTICLES_PER_HEADLINE", Message: "must be positive"}
	}
	if c.MaxConcurrentHeadlines <= 0 {
		return &ConfigError{Field: "MAX_CONCURRENT_HEADLINES", Message: "must be positive"}
	}
	if c.CacheDurationHours <= 0 {
		return &ConfigError{Field: "CACHE_DURATION_HOURS", Message: "must be positive"}
	}
	return nil
}

// ProviderAPIKey returns the API key matching the configured provider.
func (c *Config) ProviderAPIKey() string {
	switch c.LLMProvider {
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-sonnet-4-20250514"
	case "gemini":
		return "gemini-2.5-flash-preview-05-20"
	default:
		return "gpt-4o"
	}
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
