package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thecyberprinciples/meetingmind/internal/usecase/escalation"
	pkgvalidator "github.com/thecyberprinciples/meetingmind/pkg/validator"
)

type fakePipeline struct {
	processed chan string
}

func (f *fakePipeline) ProcessUpload(ctx context.Context, objectKey string) error {
	f.processed <- objectKey
	return nil
}

type fakeEscalation struct {
	lastKey string
}

func (f *fakeEscalation) HandleDeadLetter(ctx context.Context, objectKey, errorMessage string) (*escalation.Result, error) {
	f.lastKey = objectKey
	return &escalation.Result{OwnerID: "u1", MeetingID: "m1", Transitioned: true, Notified: true}, nil
}

func newWebhookContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/storage", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStorageEventAcceptsAndProcesses(t *testing.T) {
	pipe := &fakePipeline{processed: make(chan string, 1)}
	h := NewWebhook(pipe, &fakeEscalation{}, nil)

	c, rec := newWebhookContext(`{"bucket": "audio", "key": "audio/u1__m1__Weekly-Standup.mp3"}`)
	if err := h.StorageEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"accepted":true`) {
		t.Errorf("expected accepted response, got %s", rec.Body.String())
	}

	select {
	case key := <-pipe.processed:
		if key != "audio/u1__m1__Weekly-Standup.mp3" {
			t.Errorf("unexpected key %q", key)
		}
	case <-time.After(time.Second):
		t.Fatal("pipeline was never invoked")
	}
}

func TestStorageEventRejectsMalformedKey(t *testing.T) {
	pipe := &fakePipeline{processed: make(chan string, 1)}
	h := NewWebhook(pipe, &fakeEscalation{}, nil)

	c, rec := newWebhookContext(`{"key": "audio/not-a-valid-key.mp3"}`)
	if err := h.StorageEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	select {
	case <-pipe.processed:
		t.Fatal("pipeline must not run for a malformed key")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStorageEventRequiresKey(t *testing.T) {
	h := NewWebhook(&fakePipeline{processed: make(chan string, 1)}, &fakeEscalation{}, nil)

	c, rec := newWebhookContext(`{"bucket": "audio"}`)
	if err := h.StorageEvent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing key, got %d", rec.Code)
	}
}

func TestDeadLetterDelegates(t *testing.T) {
	esc := &fakeEscalation{}
	h := NewWebhook(&fakePipeline{processed: make(chan string, 1)}, esc, nil)

	e := echo.New()
	e.Validator = pkgvalidator.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/dead-letter",
		strings.NewReader(`{"key": "audio/u1__m1__Standup.mp3", "errorMessage": "boom"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.DeadLetter(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if esc.lastKey != "audio/u1__m1__Standup.mp3" {
		t.Errorf("escalation not invoked, lastKey=%q", esc.lastKey)
	}
}
