package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider calls the Gemini API through the genai SDK. The client is
// created on first use so a provider can exist before a key is set.
type GeminiProvider struct {
	mu     sync.Mutex
	apiKey string
	model  string
	client *genai.Client
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	p := &GeminiProvider{}
	p.SetAPIKey(apiKey)
	p.SetModel(model)
	return p
}

func (p *GeminiProvider) SetAPIKey(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apiKey = strings.TrimSpace(key)
	p.client = nil
}

func (p *GeminiProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultGeminiModel
	}
	p.model = model
}

func (p *GeminiProvider) ensureClient(ctx context.Context) (*genai.Client, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.apiKey == "" {
		return nil, "", ErrNoAPIKey
	}
	if p.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, "", fmt.Errorf("gemini: create client: %w", err)
		}
		p.client = client
	}
	return p.client, p.model, nil
}

// Analyze sends the rendered prompt and returns the model's text, which may
// be empty.
func (p *GeminiProvider) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	client, model, err := p.ensureClient(ctx)
	if err != nil {
		return "", err
	}
	contents := []*genai.Content{
		genai.NewContentFromText(Prompt(req), genai.RoleUser),
	}
	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
