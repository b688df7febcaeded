package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/vidscope/vidscope/pkg/config"
)

// Generator calls an OpenAI-compatible endpoint for text generation tasks
type Generator struct {
	client *openai.Client
	config config.LLMConfig
}

// NewGenerator creates a generator for the configured endpoint
func NewGenerator(cfg config.LLMConfig) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// Generate runs a single chat completion for the given task and returns the
// raw response text. The model is picked per task with a fallback to the
// default model. Transient failures are retried with exponential backoff.
func (g *Generator) Generate(ctx context.Context, task, prompt string) (string, error) {
	opts := RetryOptions{
		Retries: g.config.Retries,
		Delay:   g.config.RetryDelay,
	}

	return WithRetry(ctx, opts, func(ctx context.Context) (string, error) {
		req := openai.ChatCompletionRequest{
			Model:       g.config.ModelFor(task),
			Temperature: float32(g.config.Temperature),
			MaxTokens:   g.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from llm")
		}
		return resp.Choices[0].Message.Content, nil
	})
}

// GenerateJSON runs a completion for the task and decodes the response as T.
// A transport failure propagates as an error; a response that is not valid
// JSON for T yields the fallback value with a nil error.
func GenerateJSON[T any](ctx context.Context, g *Generator, task, prompt string, fallback T) (T, error) {
	content, err := g.Generate(ctx, task, prompt)
	if err != nil {
		var zero T
		return zero, err
	}
	return ParseOr(content, fallback), nil
}
