package insights

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/generation"
	"github.com/thecyberprinciples/meetingmind/pkg/ai"
)

type fixedGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (g *fixedGenerator) ProviderID() string { return "test" }

func (g *fixedGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.text, g.err
}

func newTestInsights(gen ai.TextGenerator, promptMaxChars int) Service {
	chain := generation.NewChain([]ai.TextGenerator{gen}, nil)
	return NewService(chain, promptMaxChars, nil)
}

func TestExtractSuccess(t *testing.T) {
	gen := &fixedGenerator{text: "```json\n" + `{
		"summary": "The team agreed to ship by Friday.",
		"decisions": ["Ship by Friday"],
		"action_items": [{"id": "a1", "task": "Write the spec", "owner": "Alice", "deadline": null, "completed": false}],
		"follow_ups": []
	}` + "\n```"}
	svc := newTestInsights(gen, 0)

	insights, err := svc.Extract(context.Background(), "We decided to ship by Friday. Alice will write the spec.", "Weekly Sync")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(insights.Decisions) != 1 {
		t.Errorf("expected 1 decision, got %d", len(insights.Decisions))
	}
	if len(insights.ActionItems) != 1 || insights.ActionItems[0].Owner != "Alice" {
		t.Errorf("unexpected action items %+v", insights.ActionItems)
	}
	if !strings.Contains(gen.lastPrompt, "ship by Friday") {
		t.Error("expected transcript in prompt")
	}
}

func TestExtractPromptCarriesTitleAndDate(t *testing.T) {
	gen := &fixedGenerator{text: `{"summary": "ok"}`}
	svc := newTestInsights(gen, 0)
	svc.(*service).now = func() time.Time {
		return time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	}

	_, err := svc.Extract(context.Background(), "Alice will send the report by next Friday.", "Weekly Standup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gen.lastPrompt, "Meeting: Weekly Standup") {
		t.Error("expected meeting title in prompt")
	}
	if !strings.Contains(gen.lastPrompt, "Date: 2026-08-30") {
		t.Error("expected current date in prompt for resolving relative deadlines")
	}
}

func TestExtractProviderFailureIsTerminal(t *testing.T) {
	gen := &fixedGenerator{err: &ai.ProviderError{Provider: "test", Kind: ai.ErrorKindAccessDenied, Err: fmt.Errorf("denied")}}
	svc := newTestInsights(gen, 0)

	_, err := svc.Extract(context.Background(), "transcript", "Weekly Sync")
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_EXTRACTION_FAILED {
		t.Errorf("expected EXTRACTION_FAILED, got %v", err)
	}
}

func TestExtractUnparseableResponseIsTerminal(t *testing.T) {
	gen := &fixedGenerator{text: "I'm sorry, I can't produce JSON today."}
	svc := newTestInsights(gen, 0)

	_, err := svc.Extract(context.Background(), "transcript", "Weekly Sync")
	if err == nil {
		t.Fatal("expected parse failure to surface as error")
	}
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_EXTRACTION_FAILED {
		t.Errorf("expected EXTRACTION_FAILED, got %v", err)
	}
}

func TestExtractEmptyTranscript(t *testing.T) {
	svc := newTestInsights(&fixedGenerator{}, 0)
	if _, err := svc.Extract(context.Background(), "", "Weekly Sync"); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestExtractTruncatesPrompt(t *testing.T) {
	gen := &fixedGenerator{text: `{"summary": "ok"}`}
	svc := newTestInsights(gen, 100)

	long := strings.Repeat("Q", 500)
	if _, err := svc.Extract(context.Background(), long, "Weekly Sync"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(gen.lastPrompt, "Q") != 100 {
		t.Errorf("expected transcript bounded to 100 chars in prompt, got %d", strings.Count(gen.lastPrompt, "Q"))
	}
}
