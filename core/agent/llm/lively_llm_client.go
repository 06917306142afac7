package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps the OpenAI chat API for the scouting agent.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

type ClientConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

const DefaultModel = "gpt-4o-mini"

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(ClientConfig{APIKey: apiKey})
}

func NewClientWithConfig(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 512
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	return &Client{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}
}

// Complete returns a plain-text completion for the prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON returns a JSON response from the LLM. The model is asked
// for a JSON object, but callers must still treat the reply as untrusted
// text.
func (c *Client) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "{}", nil
	}

	return resp.Choices[0].Message.Content, nil
}
