package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

type mockModel struct {
	generateFn func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error)
}

func (m *mockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return m.generateFn(ctx, messages)
}

func TestDescribeNotConfigured(t *testing.T) {
	s, err := New("", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("expected no error without key, got %v", err)
	}
	_, err = s.Describe(context.Background(), "Dal Curry", []string{"red lentils"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDescribeReturnsTrimmedContent(t *testing.T) {
	model := &mockModel{
		generateFn: func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error) {
			if len(messages) != 1 {
				t.Fatalf("expected 1 message, got %d", len(messages))
			}
			return &llms.ContentResponse{
				Choices: []*llms.ContentChoice{{Content: "  Slow-simmered lentils with warm spices.  "}},
			}, nil
		},
	}

	got, err := NewWithModel(model).Describe(context.Background(), "Dal Curry", []string{"red lentils", "cumin"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "Slow-simmered lentils with warm spices." {
		t.Errorf("unexpected description %q", got)
	}
}

func TestDescribePromptMentionsIngredients(t *testing.T) {
	var prompt string
	model := &mockModel{
		generateFn: func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error) {
			for _, part := range messages[0].Parts {
				if text, ok := part.(llms.TextContent); ok {
					prompt = text.Text
				}
			}
			return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}}, nil
		},
	}

	if _, err := NewWithModel(model).Describe(context.Background(), "Garden Salad", []string{"lettuce", "tomato"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(prompt, "Garden Salad") || !strings.Contains(prompt, "lettuce, tomato") {
		t.Errorf("prompt missing recipe details: %q", prompt)
	}
}

func TestDescribeEmptyResponse(t *testing.T) {
	model := &mockModel{
		generateFn: func(ctx context.Context, messages []llms.MessageContent) (*llms.ContentResponse, error) {
			return &llms.ContentResponse{}, nil
		},
	}
	if _, err := NewWithModel(model).Describe(context.Background(), "Dal Curry", nil); err == nil {
		t.Error("expected error for empty response")
	}
}
