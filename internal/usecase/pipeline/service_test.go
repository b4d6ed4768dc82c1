package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
	"github.com/thecyberprinciples/meetingmind/internal/domain/repositories"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// fakeMeetingRepo records pipeline status transitions in order
type fakeMeetingRepo struct {
	transitions []string
	meetings    map[string]*entities.Meeting
	lastResults repositories.MeetingResults
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[string]*entities.Meeting)}
}

func (f *fakeMeetingRepo) key(ownerID, meetingID string) string {
	return ownerID + "/" + meetingID
}

func (f *fakeMeetingRepo) GetMeeting(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	return f.meetings[f.key(ownerID, meetingID)], nil
}

func (f *fakeMeetingRepo) MarkTranscribing(ctx context.Context, ownerID, meetingID, title, objectKey string) error {
	f.transitions = append(f.transitions, "TRANSCRIBING")
	f.meetings[f.key(ownerID, meetingID)] = &entities.Meeting{
		OwnerID:   ownerID,
		MeetingID: meetingID,
		Title:     title,
		Status:    entities.MeetingStatusTranscribing,
		ObjectKey: objectKey,
	}
	return nil
}

func (f *fakeMeetingRepo) MarkAnalyzing(ctx context.Context, ownerID, meetingID, transcript string) error {
	f.transitions = append(f.transitions, "ANALYZING")
	if m := f.meetings[f.key(ownerID, meetingID)]; m != nil {
		m.Status = entities.MeetingStatusAnalyzing
		m.Transcript = transcript
	}
	return nil
}

func (f *fakeMeetingRepo) MarkDone(ctx context.Context, ownerID, meetingID string, results repositories.MeetingResults) error {
	f.transitions = append(f.transitions, "DONE")
	f.lastResults = results
	if m := f.meetings[f.key(ownerID, meetingID)]; m != nil {
		m.Status = entities.MeetingStatusDone
	}
	return nil
}

func (f *fakeMeetingRepo) MarkFailed(ctx context.Context, ownerID, meetingID, reason string) error {
	f.transitions = append(f.transitions, "FAILED")
	if m := f.meetings[f.key(ownerID, meetingID)]; m != nil {
		m.Status = entities.MeetingStatusFailed
		m.ErrorMessage = reason
	}
	return nil
}

func (f *fakeMeetingRepo) MarkFailedIfNotTerminal(ctx context.Context, ownerID, meetingID, reason string) (bool, error) {
	m := f.meetings[f.key(ownerID, meetingID)]
	if m != nil && m.Status.IsTerminal() {
		return false, nil
	}
	f.MarkFailed(ctx, ownerID, meetingID, reason)
	return true, nil
}

func (f *fakeMeetingRepo) ListByOwner(ctx context.Context, ownerID string) ([]entities.Meeting, error) {
	var out []entities.Meeting
	for _, m := range f.meetings {
		if m.OwnerID == ownerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMeetingRepo) ListPage(ctx context.Context, offset, limit int) ([]entities.Meeting, error) {
	return nil, nil
}

func (f *fakeMeetingRepo) UpdateActionItems(ctx context.Context, ownerID, meetingID string, items []entities.ActionItem) error {
	return nil
}

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, meetingID, audioURL string) (string, error) {
	f.calls++
	return f.transcript, f.err
}

type fakeExtractor struct {
	insights  *entities.ExtractedInsights
	err       error
	lastIn    string
	lastTitle string
}

func (f *fakeExtractor) Extract(ctx context.Context, transcript, title string) (*entities.ExtractedInsights, error) {
	f.lastIn = transcript
	f.lastTitle = title
	return f.insights, f.err
}

type fakeMediaStore struct {
	uploads map[string]string
	signErr error
}

func (f *fakeMediaStore) GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://media.test/" + objectName, nil
}

func (f *fakeMediaStore) UploadText(ctx context.Context, objectName string, content string) error {
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[objectName] = content
	return nil
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) []float64 {
	return []float64{1, 0, 0}
}

func newTestService(repo *fakeMeetingRepo, tr *fakeTranscriber, ex *fakeExtractor, media *fakeMediaStore) Service {
	cfg := &config.PipelineConfig{
		TranscriptMaxChars: 5000,
		MediaURLExpiry:     time.Hour,
	}
	return NewService(repo, tr, ex, media, &fakeEmbedder{}, cfg, nil)
}

func TestProcessUploadSuccess(t *testing.T) {
	repo := newFakeMeetingRepo()
	tr := &fakeTranscriber{transcript: "We decided to ship by Friday. Alice will write the spec."}
	deadline := "2026-09-04"
	ex := &fakeExtractor{insights: &entities.ExtractedInsights{
		Summary:   "The team agreed to ship by Friday.",
		Decisions: []string{"Ship by Friday"},
		ActionItems: []entities.ExtractedActionItem{
			{ID: "a1", Task: "Write the spec", Owner: "Alice", Deadline: &deadline},
		},
		FollowUps: []string{},
	}}
	media := &fakeMediaStore{}

	svc := newTestService(repo, tr, ex, media)
	if err := svc.ProcessUpload(context.Background(), "audio/u1__m1__Weekly-Standup.mp3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"TRANSCRIBING", "ANALYZING", "DONE"}
	if len(repo.transitions) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, repo.transitions)
	}
	for i := range want {
		if repo.transitions[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, repo.transitions)
		}
	}

	if len(repo.lastResults.Decisions) != 1 {
		t.Errorf("expected 1 decision, got %d", len(repo.lastResults.Decisions))
	}
	if len(repo.lastResults.ActionItems) != 1 {
		t.Fatalf("expected 1 action item, got %d", len(repo.lastResults.ActionItems))
	}

	item := repo.lastResults.ActionItems[0]
	if item.Owner != "Alice" {
		t.Errorf("expected owner Alice, got %q", item.Owner)
	}
	if item.RiskLevel == "" || item.RiskScore < 0 {
		t.Errorf("expected item to be risk scored, got score=%d level=%q", item.RiskScore, item.RiskLevel)
	}
	if len(item.Embedding) == 0 {
		t.Error("expected action item embedding to be pre-materialized")
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected item CreatedAt to be set")
	}

	if _, ok := media.uploads["transcripts/u1__m1.txt"]; !ok {
		t.Error("expected full transcript to be archived")
	}
	if ex.lastTitle != "Weekly Standup" {
		t.Errorf("expected extractor to receive the meeting title, got %q", ex.lastTitle)
	}
}

func TestProcessUploadMalformedKeyNoStateChange(t *testing.T) {
	repo := newFakeMeetingRepo()
	svc := newTestService(repo, &fakeTranscriber{}, &fakeExtractor{}, &fakeMediaStore{})

	err := svc.ProcessUpload(context.Background(), "audio/not-a-valid-key.mp3")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if len(repo.transitions) != 0 {
		t.Errorf("expected no state transitions, got %v", repo.transitions)
	}
}

func TestProcessUploadTranscriptionFailureMarksFailed(t *testing.T) {
	repo := newFakeMeetingRepo()
	tr := &fakeTranscriber{err: fmt.Errorf("provider rejected audio")}
	svc := newTestService(repo, tr, &fakeExtractor{}, &fakeMediaStore{})

	err := svc.ProcessUpload(context.Background(), "audio/u1__m1__Weekly-Standup.mp3")
	if err == nil {
		t.Fatal("expected transcription error")
	}

	last := repo.transitions[len(repo.transitions)-1]
	if last != "FAILED" {
		t.Errorf("expected final transition FAILED, got %v", repo.transitions)
	}
	m := repo.meetings["u1/m1"]
	if m == nil || m.Status != entities.MeetingStatusFailed {
		t.Fatal("expected meeting marked FAILED")
	}
	if !strings.Contains(m.ErrorMessage, "transcription failed") {
		t.Errorf("expected failure reason to mention transcription, got %q", m.ErrorMessage)
	}
}

func TestProcessUploadExtractionFailureMarksFailed(t *testing.T) {
	repo := newFakeMeetingRepo()
	tr := &fakeTranscriber{transcript: "some transcript"}
	ex := &fakeExtractor{err: fmt.Errorf("model returned garbage")}
	svc := newTestService(repo, tr, ex, &fakeMediaStore{})

	err := svc.ProcessUpload(context.Background(), "audio/u1__m1__Weekly-Standup.mp3")
	if err == nil {
		t.Fatal("expected extraction error")
	}
	m := repo.meetings["u1/m1"]
	if m == nil || m.Status != entities.MeetingStatusFailed {
		t.Fatal("expected meeting marked FAILED")
	}
}

func TestProcessUploadTruncatesStoredTranscript(t *testing.T) {
	repo := newFakeMeetingRepo()
	long := strings.Repeat("a", 9000)
	tr := &fakeTranscriber{transcript: long}
	ex := &fakeExtractor{insights: &entities.ExtractedInsights{
		Summary:     "Long meeting.",
		Decisions:   []string{},
		ActionItems: []entities.ExtractedActionItem{},
		FollowUps:   []string{},
	}}
	media := &fakeMediaStore{}

	svc := newTestService(repo, tr, ex, media)
	if err := svc.ProcessUpload(context.Background(), "audio/u1__m1__Long-One.mp3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.lastResults.Transcript) != 5000 {
		t.Errorf("expected stored transcript truncated to 5000 chars, got %d", len(repo.lastResults.Transcript))
	}
	// Extraction still sees the full transcript
	if len(ex.lastIn) != 9000 {
		t.Errorf("expected extractor to receive full transcript, got %d chars", len(ex.lastIn))
	}
	// Archive keeps the full transcript too
	if got := media.uploads["transcripts/u1__m1.txt"]; len(got) != 9000 {
		t.Errorf("expected archived transcript of 9000 chars, got %d", len(got))
	}
}
