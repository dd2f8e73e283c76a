package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("CHATBOT_PROVIDER", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DefaultProvider != "groq" {
		t.Errorf("expected default provider groq, got %q", cfg.DefaultProvider)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gk")
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("HF_API_KEY", "hf")
	t.Setenv("CHATBOT_PROVIDER", "gemini")
	t.Setenv("CHATBOT_MODEL", "gemini-1.5-pro")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GroqAPIKey != "gk" || cfg.GeminiAPIKey != "gem" || cfg.HFAPIKey != "hf" {
		t.Errorf("unexpected credentials %+v", cfg)
	}
	if cfg.DefaultProvider != "gemini" {
		t.Errorf("expected provider gemini, got %q", cfg.DefaultProvider)
	}
	if cfg.DefaultModel != "gemini-1.5-pro" {
		t.Errorf("expected model gemini-1.5-pro, got %q", cfg.DefaultModel)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
}

func TestAPIKeyFor(t *testing.T) {
	cfg := &Config{GroqAPIKey: "gk", GeminiAPIKey: "gem", HFAPIKey: "hf"}

	cases := map[string]string{
		"groq":        "gk",
		"gemini":      "gem",
		"huggingface": "hf",
		"unknown":     "",
	}
	for provider, want := range cases {
		if got := cfg.APIKeyFor(provider); got != want {
			t.Errorf("APIKeyFor(%q) = %q, want %q", provider, got, want)
		}
	}
}
