package playbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface check
var _ Enhancer = (*OpenAI)(nil)

const refineSystemPrompt = "You are a precise sales coach for a forklift dealership. " +
	"Rewrite the provided playbook so it is tighter, clearer, and more persuasive. " +
	"Keep every section heading and the section order exactly as given. " +
	"Do not invent facts that are not present in the draft. Return plain text only."

// ChatService defines the interface for making chat completion API calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI refines playbook drafts through OpenAI's chat completions API.
type OpenAI struct {
	chat        ChatService
	model       string
	temperature float64
}

// NewOpenAI creates an OpenAI-backed enhancer.
func NewOpenAI(apiKey, model string, temperature float64) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		chat:        client.Chat.Completions,
		model:       model,
		temperature: temperature,
	}
}

// Refine rewrites the draft with the configured model.
func (o *OpenAI) Refine(ctx context.Context, draft string) (string, error) {
	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(refineSystemPrompt),
			openai.UserMessage(draft),
		}),
		Model:       openai.F(openai.ChatModel(o.model)),
		Temperature: openai.F(o.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("playbook refinement failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("playbook refinement failed: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the chat model name
func (o *OpenAI) ModelName() string {
	return o.model
}
