package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatClient abstracts the OpenAI chat completions API for testability.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// New returns a ChatClient backed by the OpenAI API, or nil when no key is
// configured. Callers treat a nil client as "generation unavailable" and fall
// back instead of failing.
func New(apiKey string) ChatClient {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openAIClient{client: client}
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}

// CompleteJSON issues one chat completion under a timeout and strictly decodes
// the response body into out. Any malformed payload is an error; fields are
// never read from a partially validated response.
func CompleteJSON(ctx context.Context, client ChatClient, model, system, user string, timeout time.Duration, out any) error {
	if client == nil {
		return fmt.Errorf("generation client not configured")
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	completion, err := client.CreateChatCompletion(callCtx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return err
	}
	if len(completion.Choices) == 0 {
		return fmt.Errorf("empty completion")
	}
	raw := TrimCodeFence(completion.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse completion json: %w", err)
	}
	return nil
}

// FirstSuccess tries the model variants in order and returns the first result
// whose call succeeds. After the parent context is cancelled no further
// variants are attempted.
func FirstSuccess[T any](ctx context.Context, models []string, call func(model string) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		out, err := call(model)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no model variants configured")
	}
	return zero, lastErr
}

// TrimCodeFence strips a surrounding markdown code fence from a completion.
func TrimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}
