package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	genai "google.golang.org/genai"
)

// GeminiProvider calls the Gemini API through the official genai client.
// The client is created on first use so that constructing a provider never
// touches the network.
type GeminiProvider struct {
	apiKey string
	model  string

	once    sync.Once
	cli     *genai.Client
	initErr error
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) client(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		p.cli, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return p.cli, p.initErr
}

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	cli, err := p.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	var contents []*genai.Content
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			continue
		case RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: msg.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}

	cfg := &genai.GenerateContentConfig{}
	if sys := req.System(); sys != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: sys}}}
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		cfg.Temperature = &temp
	}

	resp, err := cli.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini completion: empty response")
	}

	cand := resp.Candidates[0]
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := sb.String()

	return &CompletionResponse{
		Content:      text,
		InputTokens:  EstimateTokens(req.System()) + EstimateTokens(contentsText(req)),
		OutputTokens: EstimateTokens(text),
		Model:        model,
		FinishReason: string(cand.FinishReason),
	}, nil
}

func contentsText(req CompletionRequest) string {
	var sb strings.Builder
	for _, m := range req.Messages {
		if m.Role != RoleSystem {
			sb.WriteString(m.Content)
		}
	}
	return sb.String()
}
