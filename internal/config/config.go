// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port           string
	Env            string
	UseMemoryStore bool
	SkipAuth       bool

	ProjectID       string
	CredentialsFile string
	UploadBucket    string

	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqBaseURL  string
	GroqModel    string

	AIRatePerMinute    int
	AIRatePerDay       int
	AIBreakerThreshold int
	AIBreakerTimeout   time.Duration

	// HTTPRateLimit uses the limiter's formatted syntax, e.g. "60-M".
	HTTPRateLimit  string
	MaxPDFBytes    int64
	AllowedOrigins []string
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8111")
	v.SetDefault("ENV", "development")
	v.SetDefault("USE_MEMORY_STORE", false)
	v.SetDefault("SKIP_AUTH", false)
	v.SetDefault("GOOGLE_CLOUD_PROJECT", "")
	v.SetDefault("GOOGLE_APPLICATION_CREDENTIALS", "")
	v.SetDefault("UPLOAD_BUCKET", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-lite")
	v.SetDefault("GROQ_API_KEY", "")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("GROQ_MODEL", "llama-3.1-8b-instant")
	v.SetDefault("AI_RATE_PER_MINUTE", 20)
	v.SetDefault("AI_RATE_PER_DAY", 1000)
	v.SetDefault("AI_BREAKER_THRESHOLD", 5)
	v.SetDefault("AI_BREAKER_TIMEOUT", "5m")
	v.SetDefault("HTTP_RATE_LIMIT", "60-M")
	v.SetDefault("MAX_PDF_BYTES", 10<<20)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
}

// LoadConfig loads configuration from environment variables and a .env
// file if present. Real environment variables win over .env values.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("[Config] Loaded .env file")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		Env:                strings.ToLower(v.GetString("ENV")),
		UseMemoryStore:     v.GetBool("USE_MEMORY_STORE"),
		SkipAuth:           v.GetBool("SKIP_AUTH"),
		ProjectID:          v.GetString("GOOGLE_CLOUD_PROJECT"),
		CredentialsFile:    v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		UploadBucket:       v.GetString("UPLOAD_BUCKET"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		GroqAPIKey:         v.GetString("GROQ_API_KEY"),
		GroqBaseURL:        v.GetString("GROQ_BASE_URL"),
		GroqModel:          v.GetString("GROQ_MODEL"),
		AIRatePerMinute:    v.GetInt("AI_RATE_PER_MINUTE"),
		AIRatePerDay:       v.GetInt("AI_RATE_PER_DAY"),
		AIBreakerThreshold: v.GetInt("AI_BREAKER_THRESHOLD"),
		HTTPRateLimit:      v.GetString("HTTP_RATE_LIMIT"),
		MaxPDFBytes:        v.GetInt64("MAX_PDF_BYTES"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
	}

	timeout, err := time.ParseDuration(v.GetString("AI_BREAKER_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_BREAKER_TIMEOUT: %w", err)
	}
	cfg.AIBreakerTimeout = timeout

	if cfg.Port == "" {
		cfg.Port = "8111"
	}
	if cfg.AIRatePerMinute <= 0 || cfg.AIRatePerDay <= 0 {
		return nil, fmt.Errorf("AI rate limits must be positive (per minute %d, per day %d)", cfg.AIRatePerMinute, cfg.AIRatePerDay)
	}
	if cfg.MaxPDFBytes <= 0 {
		return nil, fmt.Errorf("MAX_PDF_BYTES must be positive")
	}
	if cfg.IsProduction() && cfg.SkipAuth {
		return nil, fmt.Errorf("SKIP_AUTH cannot be enabled in production")
	}
	if !cfg.UseMemoryStore && cfg.ProjectID == "" {
		log.Println("[Config] Warning: GOOGLE_CLOUD_PROJECT not set, Firestore will use the ambient project")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
