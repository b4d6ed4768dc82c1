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

// EmbeddingsClient is a minimal client for an OpenAI-compatible /v1/embeddings
// endpoint used for semantic duplicate detection.
type EmbeddingsClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewEmbeddingsClient creates an embeddings client using the provided config.
// Pass a nil config to fall back to environment variables.
func NewEmbeddingsClient(cfg *config.EmbeddingsConfig) *EmbeddingsClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("EMBEDDINGS_API_KEY")
	}
	if base == "" {
		base = os.Getenv("EMBEDDINGS_API_URL")
		if base == "" {
			base = "https://api.openai.com"
		}
	}
	if model == "" {
		model = "text-embedding-3-small"
	}

	return &EmbeddingsClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// EmbeddingRequest is the payload for /v1/embeddings
type EmbeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

// EmbeddingResponse is a minimal response shape
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// EmbedText returns the embedding vector for one text.
func (e *EmbeddingsClient) EmbedText(ctx context.Context, text string) ([]float64, error) {
	reqBody := EmbeddingRequest{
		Model: e.model,
		Input: []string{text},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := e.baseURL + "/v1/embeddings"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "embeddings/" + e.model, Kind: ErrorKindUnknown, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &ProviderError{
			Provider: "embeddings/" + e.model,
			Kind:     classifyStatus(resp.StatusCode),
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("embeddings endpoint returned status %d", resp.StatusCode),
		}
	}

	var er EmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, &ProviderError{Provider: "embeddings/" + e.model, Kind: ErrorKindUnknown, Err: err}
	}
	if len(er.Data) == 0 {
		return nil, &ProviderError{
			Provider: "embeddings/" + e.model,
			Kind:     ErrorKindUnknown,
			Err:      fmt.Errorf("empty response from embeddings endpoint"),
		}
	}
	return er.Data[0].Embedding, nil
}
