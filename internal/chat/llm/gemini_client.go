package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/folio-labs/portfolio-backend/internal/chat/domain"
)

const (
	defaultModel     = "gemini-2.0-flash"
	maxOutputTokens  = 1024
	replyTemperature = 0.7
)

// GeminiClient generates chat replies through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the history plus message and returns the model's text.
func (g *GeminiClient) Generate(ctx context.Context, system string, history []domain.Turn, message string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, BuildContents(history, message), BuildConfig(system))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", domain.ErrEmptyReply
	}
	return text, nil
}

// Name returns the engine name.
func (g *GeminiClient) Name() string {
	return "genai:" + g.model
}

// BuildContents maps stored turns to Gemini contents, ending with message
// as the user turn.
func BuildContents(history []domain.Turn, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		var role genai.Role = genai.RoleUser
		if t.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

func BuildConfig(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](replyTemperature),
		MaxOutputTokens: maxOutputTokens,
	}
	if s := strings.TrimSpace(system); s != "" {
		cfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	return cfg
}
