package config

import (
	"os"
	"strconv"
	"time"
)

// EvaluatorConfig points at the external outcome-evaluation rule
// interpreter. When no API key is set, the local fallback evaluator is
// used instead.
type EvaluatorConfig struct {
	BaseURL   string `json:"baseUrl"`
	APIKey    string `json:"-"` // Never serialize
	TimeoutMS int    `json:"timeoutMs"`
}

// IsEnabled returns true if the remote evaluator is configured
func (c *EvaluatorConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// FastPathConfig controls the external health-record fast path
type FastPathConfig struct {
	// AuthorizeURL is the out-of-band authorization flow the consumer's
	// popup navigates to.
	AuthorizeURL string `json:"authorizeUrl"`

	// Timeout bounds how long an authorization attempt may stay pending.
	Timeout time.Duration `json:"timeout"`
}

// Config holds all server configuration, loaded from the environment
// with code defaults.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string

	Evaluator EvaluatorConfig
	FastPath  FastPathConfig
}

// Load reads configuration from the environment
func Load() *Config {
	return &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "aegis"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Evaluator: EvaluatorConfig{
			BaseURL:   getEnvOrDefault("EVALUATOR_URL", "https://evaluator.internal/v1/evaluate"),
			APIKey:    os.Getenv("EVALUATOR_API_KEY"),
			TimeoutMS: getEnvIntOrDefault("EVALUATOR_TIMEOUT_MS", 10000),
		},
		FastPath: FastPathConfig{
			AuthorizeURL: getEnvOrDefault("FASTPATH_AUTHORIZE_URL", "https://records.example.com/authorize"),
			Timeout:      time.Duration(getEnvIntOrDefault("FASTPATH_TIMEOUT_SEC", 300)) * time.Second,
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
