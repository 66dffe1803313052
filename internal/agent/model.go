package agent

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/fyrsmithlabs/shopchat/internal/config"
)

// NewModel creates the chat model from configuration. The OpenAI client
// also serves OpenAI-compatible gateways via BaseURL.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: llm model is required", config.ErrInvalidConfig)
	}

	apiKey := "placeholder"
	if cfg.APIKey.IsSet() {
		apiKey = cfg.APIKey.Value()
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating chat model: %w", err)
	}
	return llm, nil
}
