package factory

import (
	"fmt"
	"time"

	"accio-playground-be/pkg/llm"
	"accio-playground-be/pkg/llm/ollama"
	"accio-playground-be/pkg/llm/openrouter"
)

type Params struct {
	Provider string // "openrouter" | "ollama"
	Model    string
	BaseURL  string
	APIKey   string
	Referer  string
	AppTitle string
	Timeout  time.Duration
}

func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	switch p.Provider {
	case "openrouter", "":
		return openrouter.NewOpenRouterProvider(openrouter.Config{
			APIKey:   p.APIKey,
			BaseURL:  p.BaseURL,
			Model:    p.Model,
			Referer:  p.Referer,
			AppTitle: p.AppTitle,
			Timeout:  p.Timeout,
		}), nil
	case "ollama":
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, p.Model, p.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
}
