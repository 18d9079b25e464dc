package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"eventhub/internal/domain"
)

// ErrUnavailable is returned when no API key is configured.
var ErrUnavailable = errors.New("gemini: no api key configured")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini: empty response")

// generator is the subset of *genai.GenerativeModel used by the client.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiCompleter struct {
	client *genai.Client
	model  generator
}

// NewCompleter returns a ChatCompleter backed by the Gemini API. With an empty
// apiKey it returns a completer that always fails with ErrUnavailable. Close
// releases the underlying client.
func NewCompleter(ctx context.Context, apiKey, model string) (domain.ChatCompleter, func() error, error) {
	if apiKey == "" {
		return unavailableCompleter{}, func() error { return nil }, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiCompleter{client: client, model: client.GenerativeModel(model)}, client.Close, nil
}

func (c *geminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

// responseText joins the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", ErrEmptyResponse
}

type unavailableCompleter struct{}

func (unavailableCompleter) Complete(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
