package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"outreach-engine/shared/config"
)

// Message roles understood by the generative service.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleModel  = "model"
)

type Message struct {
	Role    string
	Content string
}

// Request is one call to the generative text service.
type Request struct {
	Model           string
	Messages        []Message
	Temperature     float32
	MaxOutputTokens int
}

// Response is the service's free-text answer plus token accounting.
type Response struct {
	Text         string
	PromptTokens int
	OutputTokens int
}

// TextGenerator is the injected capability every generative path in the
// engine depends on. Production code uses the Gemini-backed Client;
// tests inject deterministic stubs.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Client wraps the Gemini API behind the TextGenerator contract.
type Client struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.GeminiAPIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &Client{
		client:  client,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
	}, nil
}

// DefaultModel returns the model used when a request leaves Model empty.
func (c *Client) DefaultModel() string {
	return c.model
}

func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("rate limiter wait: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	var contents []*genai.Content
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.MaxOutputTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}

	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			genCfg.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case RoleModel:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		return Response{}, fmt.Errorf("generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return Response{}, fmt.Errorf("empty response from model %s", model)
	}

	resp := Response{Text: text}
	if result.UsageMetadata != nil {
		resp.PromptTokens = int(result.UsageMetadata.PromptTokenCount)
		resp.OutputTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}
	return resp, nil
}

// ExtractJSON pulls the first JSON object out of a free-text model
// response. Models often wrap JSON in prose or code fences.
func ExtractJSON(response string) (string, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("no JSON found in response")
	}
	return response[startIdx : endIdx+1], nil
}
