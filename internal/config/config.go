package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	CORSOrigins     string
	RedisURL        string
	GeminiAPIKeys   []string
	GeminiModel     string
	GeminiMaxTokens int
	SearchAPIKey    string
	SearchEngineID  string
	SearchTimeout   time.Duration
	QueueCapacity   int
	EvaluationRound string
	ShutdownGrace   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// SearchConfigured reports whether web retrieval can be enabled at all.
func (c Config) SearchConfigured() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}

// Load reads configuration values from environment variables and an optional
// .env file. Missing model keys are not fatal: the evaluation pipeline is
// built to degrade all the way to its synthetic tier.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ARENA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "IdeaArena API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.max_tokens", 1024)
	v.SetDefault("search.timeout", "10s")
	v.SetDefault("queue.capacity", 256)
	v.SetDefault("evaluation.round", "1")
	v.SetDefault("shutdown.grace", "10s")

	searchTimeout, err := time.ParseDuration(v.GetString("search.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid search timeout: %w", err)
	}

	shutdownGrace, err := time.ParseDuration(v.GetString("shutdown.grace"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid shutdown grace: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		CORSOrigins:     v.GetString("cors.origins"),
		RedisURL:        v.GetString("redis.url"),
		GeminiAPIKeys:   splitKeys(v.GetString("gemini.api_keys")),
		GeminiModel:     v.GetString("gemini.model"),
		GeminiMaxTokens: v.GetInt("gemini.max_tokens"),
		SearchAPIKey:    v.GetString("search.api_key"),
		SearchEngineID:  v.GetString("search.engine_id"),
		SearchTimeout:   searchTimeout,
		QueueCapacity:   v.GetInt("queue.capacity"),
		EvaluationRound: v.GetString("evaluation.round"),
		ShutdownGrace:   shutdownGrace,
	}

	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 256
	}

	return cfg, nil
}

func splitKeys(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
