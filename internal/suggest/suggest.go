// Package suggest generates recipe description drafts with an LLM.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNotConfigured is returned when no API key was provided at startup.
var ErrNotConfigured = errors.New("suggestion model not configured")

// Model is the narrow LLM surface the suggester needs.
// Satisfied by *openai.LLM.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Suggester drafts recipe descriptions for the kitchen staff.
type Suggester struct {
	model Model
}

// New builds a Suggester backed by OpenAI. An empty apiKey returns a
// suggester whose calls fail with ErrNotConfigured instead of an error
// at startup, so the rest of the server can run without a key.
func New(apiKey, modelName string) (*Suggester, error) {
	if apiKey == "" {
		return &Suggester{}, nil
	}
	llm, err := openai.New(
		openai.WithModel(modelName),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("init suggestion model: %w", err)
	}
	return &Suggester{model: llm}, nil
}

// NewWithModel builds a Suggester around an existing model.
func NewWithModel(model Model) *Suggester {
	return &Suggester{model: model}
}

// Describe drafts a short menu description for a recipe from its name
// and ingredient list.
func (s *Suggester) Describe(ctx context.Context, recipeName string, ingredients []string) (string, error) {
	if s.model == nil {
		return "", ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"Write a short, appetizing menu description (2 sentences max) for a dish called %q made with: %s. Plain text only.",
		recipeName, strings.Join(ingredients, ", "),
	)

	response, err := s.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, llms.WithTemperature(0.7), llms.WithMaxTokens(160))
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
