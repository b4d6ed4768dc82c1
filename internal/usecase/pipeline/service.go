package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
	"github.com/thecyberprinciples/meetingmind/internal/domain/repositories"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// Transcriber turns an audio URL into a transcript
type Transcriber interface {
	Transcribe(ctx context.Context, meetingID, audioURL string) (string, error)
}

// Extractor turns a transcript into structured insights. The title gives the
// model meeting context for resolving references in the transcript.
type Extractor interface {
	Extract(ctx context.Context, transcript, title string) (*entities.ExtractedInsights, error)
}

// MediaStore provides signed access to uploaded audio and archives transcripts
type MediaStore interface {
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	UploadText(ctx context.Context, objectName string, content string) error
}

// Embedder pre-materializes action-item embeddings at write time
type Embedder interface {
	Embed(ctx context.Context, text string) []float64
}

// Service is the pipeline coordinator. One call drives a meeting from upload
// notification through transcription and extraction to its terminal status.
type Service interface {
	ProcessUpload(ctx context.Context, objectKey string) error
}

type service struct {
	meetingRepo        repositories.MeetingRepository
	transcriber        Transcriber
	extractor          Extractor
	media              MediaStore
	embedder           Embedder
	transcriptMaxChars int
	mediaURLExpiry     time.Duration
	now                func() time.Time
	logger             *zap.Logger
}

// NewService creates the pipeline coordinator
func NewService(
	meetingRepo repositories.MeetingRepository,
	transcriber Transcriber,
	extractor Extractor,
	media MediaStore,
	embedder Embedder,
	cfg *config.PipelineConfig,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	transcriptMaxChars := 5000
	mediaURLExpiry := 2 * time.Hour
	if cfg != nil {
		if cfg.TranscriptMaxChars > 0 {
			transcriptMaxChars = cfg.TranscriptMaxChars
		}
		if cfg.MediaURLExpiry > 0 {
			mediaURLExpiry = cfg.MediaURLExpiry
		}
	}

	return &service{
		meetingRepo:        meetingRepo,
		transcriber:        transcriber,
		extractor:          extractor,
		media:              media,
		embedder:           embedder,
		transcriptMaxChars: transcriptMaxChars,
		mediaURLExpiry:     mediaURLExpiry,
		now:                time.Now,
		logger:             logger,
	}
}

// ProcessUpload runs the full pipeline for one uploaded audio object.
// A malformed key returns an error without touching any meeting record; every
// failure after the record enters TRANSCRIBING marks it FAILED.
func (s *service) ProcessUpload(ctx context.Context, objectKey string) error {
	key, err := ParseTriggerKey(objectKey)
	if err != nil {
		s.logger.Warn("ignoring object with malformed key", zap.String("object_key", objectKey))
		return err
	}

	logger := s.logger.With(
		zap.String("owner_id", key.OwnerID),
		zap.String("meeting_id", key.MeetingID),
	)
	logger.Info("🚀 Processing uploaded meeting audio",
		zap.String("title", key.Title),
		zap.String("format", key.Format),
	)

	if err := s.meetingRepo.MarkTranscribing(ctx, key.OwnerID, key.MeetingID, key.Title, objectKey); err != nil {
		return apperrors.ErrPersistenceFailed("mark transcribing", err)
	}

	audioURL, err := s.media.GetFileURL(ctx, objectKey, s.mediaURLExpiry)
	if err != nil {
		return s.fail(ctx, key, fmt.Sprintf("failed to sign audio URL: %v", err), apperrors.ErrStorageFailed("sign audio url", err))
	}

	transcript, err := s.transcriber.Transcribe(ctx, key.MeetingID, audioURL)
	if err != nil {
		return s.fail(ctx, key, fmt.Sprintf("transcription failed: %v", err), err)
	}

	stored := transcript
	if len(stored) > s.transcriptMaxChars {
		stored = stored[:s.transcriptMaxChars]
	}
	if err := s.meetingRepo.MarkAnalyzing(ctx, key.OwnerID, key.MeetingID, stored); err != nil {
		return apperrors.ErrPersistenceFailed("mark analyzing", err)
	}

	// Full transcript archived alongside the audio, best effort
	archiveKey := fmt.Sprintf("transcripts/%s__%s.txt", key.OwnerID, key.MeetingID)
	if err := s.media.UploadText(ctx, archiveKey, transcript); err != nil {
		logger.Warn("failed to archive full transcript", zap.Error(err))
	}

	insights, err := s.extractor.Extract(ctx, transcript, key.Title)
	if err != nil {
		return s.fail(ctx, key, fmt.Sprintf("insight extraction failed: %v", err), err)
	}

	items := s.buildActionItems(ctx, insights.ActionItems)
	results := repositories.MeetingResults{
		Transcript:  stored,
		Summary:     insights.Summary,
		Decisions:   insights.Decisions,
		ActionItems: items,
		FollowUps:   insights.FollowUps,
	}
	if err := s.meetingRepo.MarkDone(ctx, key.OwnerID, key.MeetingID, results); err != nil {
		return apperrors.ErrPersistenceFailed("mark done", err)
	}

	logger.Info("✅ Meeting processed",
		zap.Int("decisions", len(results.Decisions)),
		zap.Int("action_items", len(results.ActionItems)),
	)
	return nil
}

// buildActionItems converts extracted items into stored ones, scoring risk and
// pre-materializing embeddings so duplicate checks stay cheap later.
func (s *service) buildActionItems(ctx context.Context, extracted []entities.ExtractedActionItem) []entities.ActionItem {
	now := s.now().UTC()
	items := make([]entities.ActionItem, 0, len(extracted))

	for _, e := range extracted {
		item := entities.ActionItem{
			ID:        e.ID,
			Task:      e.Task,
			Owner:     e.Owner,
			Deadline:  e.Deadline,
			Completed: e.Completed,
			CreatedAt: now,
		}
		item.RiskScore = RiskScore(&item, now)
		item.RiskLevel = entities.RiskLevelForScore(item.RiskScore)
		if s.embedder != nil {
			item.Embedding = s.embedder.Embed(ctx, item.Task)
		}
		items = append(items, item)
	}
	return items
}

// fail marks the meeting FAILED and returns the pipeline error. The status
// write is best effort so the original failure is never masked.
func (s *service) fail(ctx context.Context, key *TriggerKey, reason string, cause error) error {
	if err := s.meetingRepo.MarkFailed(ctx, key.OwnerID, key.MeetingID, reason); err != nil {
		s.logger.Error("❌ Failed to mark meeting as failed",
			zap.String("owner_id", key.OwnerID),
			zap.String("meeting_id", key.MeetingID),
			zap.Error(err),
		)
	}
	return cause
}
