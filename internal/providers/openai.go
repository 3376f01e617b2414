package providers

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI implements the Summarizer interface on OpenAI's chat API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(model string) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	cfg := openai.DefaultConfig(key)
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Summarize(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	chatReq := openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}

	var resp Response
	err := retryWithBackoff(ctx, 3, func() error {
		result, err := o.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return classifyOpenAIError(err)
		}
		if len(result.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		if result.Choices[0].Message.Content == "" {
			return fmt.Errorf("empty text content in API response")
		}
		resp = Response{
			Text:       result.Choices[0].Message.Content,
			Model:      o.model,
			TokensUsed: result.Usage.TotalTokens,
		}
		return nil
	})

	return resp, err
}

// classifyOpenAIError maps library errors onto the shared provider error
// types so retry and exit-code handling treat every provider the same.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return &authError{message: apiErr.Message}
		case apiErr.HTTPStatusCode == 429:
			return &rateLimitError{}
		case apiErr.HTTPStatusCode >= 500:
			return &serverError{statusCode: apiErr.HTTPStatusCode, body: apiErr.Message}
		}
	}
	return fmt.Errorf("chat completion: %w", err)
}
