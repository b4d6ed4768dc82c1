package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// GroqClient is a minimal client for Groq chat-completion calls. One client
// is bound to one model so an ordered list of clients forms a fallback chain.
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewGroqClient creates a Groq client for the given model using values from
// the provided config. Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig, model string) *GroqClient {
	var apiKey string
	temperature := 0.1
	maxTokens := 2000
	if cfg != nil {
		apiKey = cfg.APIKey
		temperature = cfg.Temperature
		maxTokens = cfg.MaxTokens
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("GROQ_API_URL")
		if base == "" {
			base = "https://api.groq.com"
		}
	}

	return &GroqClient{
		apiKey:      apiKey,
		baseURL:     base,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ProviderID identifies this candidate within a fallback chain.
func (g *GroqClient) ProviderID() string {
	return "groq/" + g.model
}

// GenerateText sends the prompt to Groq and returns the assistant content.
// Provider-side failures are returned as *ProviderError with a classification.
func (g *GroqClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model:       g.model,
		Messages:    []map[string]string{{"role": "user", "content": prompt}},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: g.ProviderID(), Kind: ErrorKindUnknown, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &ProviderError{
			Provider: g.ProviderID(),
			Kind:     classifyStatus(resp.StatusCode),
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("groq returned status %d", resp.StatusCode),
		}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &ProviderError{Provider: g.ProviderID(), Kind: ErrorKindUnknown, Err: err}
	}
	if len(cr.Choices) == 0 {
		return "", &ProviderError{
			Provider: g.ProviderID(),
			Kind:     ErrorKindUnknown,
			Err:      fmt.Errorf("empty response from groq"),
		}
	}
	return cr.Choices[0].Message.Content, nil
}
