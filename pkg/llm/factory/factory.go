package factory

import (
	"fmt"

	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/llm/groq"
	"hybrid-chatbot-be/pkg/llm/huggingface"
	"hybrid-chatbot-be/pkg/llm/ollama"
)

// Config carries the provider-selection knobs from the application config.
type Config struct {
	Provider      string // "ollama", "groq", "huggingface"
	Model         string
	OllamaBaseURL string
	GroqAPIKey    string
	GroqBaseURL   string
	HFAPIKey      string
	HFBaseURL     string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("groq provider requires an API key")
		}
		return groq.NewGroqProvider(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.HFAPIKey, cfg.HFBaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
