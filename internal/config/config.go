package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
// Note: This is a stateless configuration - there is no database and no auth;
// every domain computation is delegated to the oracle.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	GeminiAPIKey string // Google Gemini API key
	OpenAIAPIKey string // OpenAI API key (alternate oracle backend)

	// Oracle model, e.g. gemini-2.5-flash or gpt-4o-mini
	OracleModel string

	// Structure mirrors, tried in order. Overridable for tests and outages.
	RCSBFilesURL string
	PDBeFilesURL string

	// Rate limiting (per client IP)
	RateLimitRPS   float64
	RateLimitBurst int

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OracleModel:       getEnv("ORACLE_MODEL", "gemini-2.5-flash"),
		RCSBFilesURL:      getEnv("RCSB_FILES_URL", "https://files.rcsb.org/download"),
		PDBeFilesURL:      getEnv("PDBE_FILES_URL", "https://www.ebi.ac.uk/pdbe/entry-files/download"),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 5),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
