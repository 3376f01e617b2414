package providers

import (
	"context"
	"fmt"
)

// Request contains the curated text sent to an LLM for summarization.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Response contains the raw response from an LLM.
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Summarizer is the provider abstraction interface.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a provider by name. An empty name selects Anthropic.
func New(provider, model string) (Summarizer, error) {
	switch provider {
	case "", "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "ollama":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
