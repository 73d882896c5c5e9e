// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"gocausal/adapters/llm"
	"gocausal/domain/causal"
	"gocausal/internal/errors"
)

// Config is the resolved runtime configuration for a discovery run
type Config struct {
	LLM       llm.Config
	Discovery causal.DiscoveryConfig
}

// Load resolves configuration from .env (if present) and the environment.
// A missing API key is a fatal configuration error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] no .env file found, using environment variables")
	}

	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.ConfigInvalid("LLM_API_KEY is not set")
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "anthropic/claude-sonnet-4"
	}

	cfg := &Config{
		LLM: llm.Config{
			APIKey:  apiKey,
			Model:   model,
			BaseURL: os.Getenv("LLM_BASE_URL"),
		},
		Discovery: causal.DefaultDiscoveryConfig(),
	}

	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = n
		}
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.Timeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("DISCOVERY_N_SAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.NSamples = n
		}
	}
	if v := os.Getenv("DISCOVERY_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Discovery.Temperature = f
		}
	}
	if v := os.Getenv("DISCOVERY_SIGNIFICANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Discovery.SignificanceLevel = f
		}
	}

	if err := cfg.Discovery.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
