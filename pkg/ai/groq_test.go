package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

func newTestGroq(baseURL, model string) *GroqClient {
	cfg := &config.GroqConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Temperature: 0.1,
		MaxTokens:   100,
	}
	return NewGroqClient(cfg, model)
}

func TestGroqGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "generated text"}}]}`))
	}))
	defer server.Close()

	client := newTestGroq(server.URL, "llama-3.1-8b-instant")
	text, err := client.GenerateText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "generated text" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGroqGenerateTextThrottled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestGroq(server.URL, "llama-3.1-8b-instant")
	_, err := client.GenerateText(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != ErrorKindThrottled {
		t.Errorf("expected throttled kind, got %v", KindOf(err))
	}
}

func TestGroqGenerateTextAccessDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestGroq(server.URL, "llama-3.1-8b-instant")
	_, err := client.GenerateText(context.Background(), "hello")
	if KindOf(err) != ErrorKindAccessDenied {
		t.Errorf("expected access denied kind, got %v", KindOf(err))
	}
}

func TestGroqGenerateTextEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := newTestGroq(server.URL, "llama-3.1-8b-instant")
	_, err := client.GenerateText(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestGroqProviderID(t *testing.T) {
	client := newTestGroq("http://localhost", "llama-3.3-70b-versatile")
	if got := client.ProviderID(); got != "groq/llama-3.3-70b-versatile" {
		t.Errorf("unexpected provider id %q", got)
	}
}
