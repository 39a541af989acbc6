package llm

import (
	"fmt"

	"courtside/internal/config"
)

// Provider identifies a generative-text backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// NewClientFromConfig builds a client from the resolved configuration.
// Provider precedence: explicit llm.provider, then whichever credential
// the environment supplied (config.ApplyEnvOverrides sets the provider
// alongside the key).
func NewClientFromConfig(cfg *config.Config) (Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("no API key found; set llm.api_key in config or one of: OPENAI_API_KEY, GEMINI_API_KEY")
	}

	switch Provider(cfg.LLM.Provider) {
	case ProviderOpenAI, "":
		oc := DefaultOpenAIConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			oc.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			oc.BaseURL = cfg.LLM.BaseURL
		}
		oc.Timeout = cfg.LLMTimeout()
		return NewOpenAIClientWithConfig(oc), nil
	case ProviderGemini:
		gc := DefaultGeminiConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			gc.Model = cfg.LLM.Model
		}
		gc.Timeout = cfg.LLMTimeout()
		return NewGeminiClientWithConfig(gc)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
	}
}
