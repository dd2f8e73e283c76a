// Package config loads process configuration from environment variables and
// .env files.
package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all process-level configuration for the chatbot CLI.
// Provider credentials are read here once and handed to the client facade;
// nothing else in the repository touches the environment.
type Config struct {
	// Provider credentials
	GroqAPIKey   string `env:"GROQ_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	HFAPIKey     string `env:"HF_API_KEY"`

	// Defaults applied when neither flags nor preferences specify a value
	DefaultProvider string `env:"CHATBOT_PROVIDER" envDefault:"groq"`
	DefaultModel    string `env:"CHATBOT_MODEL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from a .env file (if present) and environment
// variables. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// APIKeyFor returns the credential configured for the given provider name,
// or "" if none is set.
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiAPIKey
	case "huggingface":
		return c.HFAPIKey
	case "groq":
		return c.GroqAPIKey
	}
	return ""
}
