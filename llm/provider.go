// Package llm builds the chat model behind the whole assistant. Every
// component speaks eino's ToolCallingChatModel, so swapping providers is a
// config change.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderGrok   = "grok"
	ProviderGemini = "gemini"
)

const grokBaseURL = "https://api.x.ai/v1"

// Config selects and configures one provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint for OpenAI-compatible APIs.
	BaseURL string
}

// New returns the chat model for the configured provider. Grok is an
// OpenAI-compatible API with a fixed base URL.
func New(ctx context.Context, cfg Config) (model.ToolCallingChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: model name is required")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI, "":
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case ProviderGrok:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = grokBaseURL
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: baseURL,
		})
	case ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
