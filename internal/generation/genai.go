package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

var ErrNoAPIKey = errors.New("GenAI API key is required")

// GenAIGenerator answers prompts with Google's Gemini API. The client is
// created on first use and recreated when the API key changes.
type GenAIGenerator struct {
	model  string
	apiKey func() string

	mu     sync.Mutex
	key    string
	client *genai.Client
}

// NewGenAIGenerator creates a Gemini-backed generator.
func NewGenAIGenerator(model string, apiKey func() string) *GenAIGenerator {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == nil {
		apiKey = func() string { return "" }
	}
	return &GenAIGenerator{model: model, apiKey: apiKey}
}

// Model returns the configured model name.
func (g *GenAIGenerator) Model() string { return g.model }

func (g *GenAIGenerator) clientFor(ctx context.Context) (*genai.Client, error) {
	key := strings.TrimSpace(g.apiKey())
	if key == "" {
		return nil, ErrNoAPIKey
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil && g.key == key {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	g.client = client
	g.key = key
	return client, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := g.clientFor(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
