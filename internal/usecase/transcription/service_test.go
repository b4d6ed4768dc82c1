package transcription

import (
	"context"
	stdErrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/cache"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// scriptedSpeech returns jobs in sequence for successive polls
type scriptedSpeech struct {
	submitID   string
	submitErr  error
	submits    int
	polls      int
	pollStates []*Job
	pollErr    error
}

func (s *scriptedSpeech) SubmitFromURL(ctx context.Context, url string) (string, error) {
	s.submits++
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return s.submitID, nil
}

func (s *scriptedSpeech) GetJob(ctx context.Context, jobID string) (*Job, error) {
	idx := s.polls
	s.polls++
	if s.pollErr != nil {
		return nil, s.pollErr
	}
	if idx >= len(s.pollStates) {
		idx = len(s.pollStates) - 1
	}
	return s.pollStates[idx], nil
}

func newTestTranscription(speech SpeechClient, maxAttempts int) (Service, *cache.MemoryStore) {
	store := cache.NewMemoryStore()
	cfg := &config.PipelineConfig{
		PollInterval:    time.Millisecond,
		PollMaxAttempts: maxAttempts,
		JobRegistryTTL:  time.Hour,
	}
	svc := NewService(speech, store, cfg, nil)
	svc.(*service).sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return svc, store
}

func TestTranscribeCompletes(t *testing.T) {
	speech := &scriptedSpeech{
		submitID: "job-1",
		pollStates: []*Job{
			{ID: "job-1", State: JobStateInProgress},
			{ID: "job-1", State: JobStateCompleted, Text: "hello world"},
		},
	}
	svc, store := newTestTranscription(speech, 10)

	text, err := svc.Transcribe(context.Background(), "m1", "https://media.test/a.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("expected transcript, got %q", text)
	}
	if speech.submits != 1 {
		t.Errorf("expected one submit, got %d", speech.submits)
	}

	// Registry entry is cleared once the job is terminal
	if _, found, _ := store.Get(context.Background(), "transcribe:job:m1"); found {
		t.Error("expected registry entry removed after completion")
	}
}

func TestTranscribeJoinsExistingJob(t *testing.T) {
	speech := &scriptedSpeech{
		submitID: "job-new",
		pollStates: []*Job{
			{ID: "job-old", State: JobStateCompleted, Text: "done"},
		},
	}
	svc, store := newTestTranscription(speech, 10)
	store.Set(context.Background(), "transcribe:job:m1", "job-old", time.Hour)

	text, err := svc.Transcribe(context.Background(), "m1", "https://media.test/a.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "done" {
		t.Errorf("expected transcript from existing job, got %q", text)
	}
	if speech.submits != 0 {
		t.Errorf("expected no new submit when a job is registered, got %d", speech.submits)
	}
}

func TestTranscribeProviderFailure(t *testing.T) {
	speech := &scriptedSpeech{
		submitID: "job-1",
		pollStates: []*Job{
			{ID: "job-1", State: JobStateFailed, FailureReason: "audio too short"},
		},
	}
	svc, _ := newTestTranscription(speech, 10)

	_, err := svc.Transcribe(context.Background(), "m1", "https://media.test/a.mp3")
	if err == nil {
		t.Fatal("expected failure error")
	}
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_TRANSCRIPTION_FAILED {
		t.Errorf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
}

func TestTranscribeTimesOut(t *testing.T) {
	speech := &scriptedSpeech{
		submitID: "job-1",
		pollStates: []*Job{
			{ID: "job-1", State: JobStateInProgress},
		},
	}
	svc, _ := newTestTranscription(speech, 3)

	_, err := svc.Transcribe(context.Background(), "m1", "https://media.test/a.mp3")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_TRANSCRIPTION_TIMEOUT {
		t.Errorf("expected TRANSCRIPTION_TIMEOUT, got %v", err)
	}
	if speech.polls != 3 {
		t.Errorf("expected exactly 3 polls, got %d", speech.polls)
	}
}

func TestTranscribePollErrorsAreTransient(t *testing.T) {
	speech := &scriptedSpeech{
		submitID: "job-1",
		pollErr:  fmt.Errorf("api hiccup"),
	}
	svc, _ := newTestTranscription(speech, 2)

	_, err := svc.Transcribe(context.Background(), "m1", "https://media.test/a.mp3")
	if err == nil {
		t.Fatal("expected timeout after persistent poll errors")
	}
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_TRANSCRIPTION_TIMEOUT {
		t.Errorf("expected TRANSCRIPTION_TIMEOUT, got %v", err)
	}
	if speech.polls != 2 {
		t.Errorf("expected poll attempts to continue through errors, got %d", speech.polls)
	}
}
