package similarity

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
	"github.com/thecyberprinciples/meetingmind/internal/domain/repositories"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

// Service checks a candidate task against the owner's incomplete action items
// for semantic duplicates.
type Service interface {
	CheckDuplicate(ctx context.Context, ownerID, task string) (*entities.DuplicateCheck, error)
}

type service struct {
	meetingRepo        repositories.MeetingRepository
	embedder           *Embedder
	duplicateThreshold float64
	softThreshold      float64
	chronicRepeats     int
	historyLimit       int
	logger             *zap.Logger
}

// NewService creates a duplicate detection service
func NewService(meetingRepo repositories.MeetingRepository, embedder *Embedder, cfg *config.SimilarityConfig, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	duplicateThreshold := 0.85
	softThreshold := 0.70
	chronicRepeats := 3
	historyLimit := 10
	if cfg != nil {
		if cfg.DuplicateThreshold > 0 {
			duplicateThreshold = cfg.DuplicateThreshold
		}
		if cfg.SoftThreshold > 0 {
			softThreshold = cfg.SoftThreshold
		}
		if cfg.ChronicRepeats > 0 {
			chronicRepeats = cfg.ChronicRepeats
		}
		if cfg.HistoryLimit > 0 {
			historyLimit = cfg.HistoryLimit
		}
	}

	return &service{
		meetingRepo:        meetingRepo,
		embedder:           embedder,
		duplicateThreshold: duplicateThreshold,
		softThreshold:      softThreshold,
		chronicRepeats:     chronicRepeats,
		historyLimit:       historyLimit,
		logger:             logger,
	}
}

// scoredMatch pairs one stored item with its cosine against the candidate
type scoredMatch struct {
	item    entities.ActionItem
	meeting *entities.Meeting
	cos     float64
}

// CheckDuplicate embeds the candidate task and compares it against every
// incomplete action item the owner has. Stored items without an embedding are
// embedded on the fly.
func (s *service) CheckDuplicate(ctx context.Context, ownerID, task string) (*entities.DuplicateCheck, error) {
	meetings, err := s.meetingRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	candidate := s.embedder.Embed(ctx, task)

	var matches []scoredMatch
	for mi := range meetings {
		meeting := &meetings[mi]
		for _, item := range meeting.ActionItems {
			if item.Completed || item.Task == "" {
				continue
			}

			stored := item.Embedding
			if len(stored) == 0 {
				stored = s.embedder.Embed(ctx, item.Task)
			}

			cos := CosineSimilarity(candidate, stored)
			if cos >= s.softThreshold {
				matches = append(matches, scoredMatch{item: item, meeting: meeting, cos: cos})
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].cos > matches[j].cos
	})

	result := &entities.DuplicateCheck{
		AllDuplicates: make([]entities.DuplicateMatch, 0),
		History:       make([]entities.SimilarityHistoryEntry, 0),
		RepeatCount:   len(matches),
	}
	result.IsChronicBlocker = result.RepeatCount >= s.chronicRepeats

	// Every match above the soft threshold belongs in the history, including
	// those strong enough to also count as duplicates.
	for _, m := range matches {
		if m.cos >= s.duplicateThreshold {
			result.AllDuplicates = append(result.AllDuplicates, s.toMatch(m))
		}
		if len(result.History) < s.historyLimit {
			result.History = append(result.History, entities.SimilarityHistoryEntry{
				Task:         m.item.Task,
				Date:         m.item.CreatedAt.Format("2006-01-02"),
				MeetingTitle: m.meeting.Title,
				Similarity:   scaleSimilarity(m.cos),
			})
		}
	}

	if len(result.AllDuplicates) > 0 {
		result.IsDuplicate = true
		result.BestMatch = &result.AllDuplicates[0]
		result.Similarity = result.BestMatch.Similarity
	}

	s.logger.Info("duplicate check completed",
		zap.String("owner_id", ownerID),
		zap.Bool("is_duplicate", result.IsDuplicate),
		zap.Int("duplicates", len(result.AllDuplicates)),
		zap.Int("repeat_count", result.RepeatCount),
	)
	return result, nil
}

func (s *service) toMatch(m scoredMatch) entities.DuplicateMatch {
	return entities.DuplicateMatch{
		ID:           m.item.ID,
		Task:         m.item.Task,
		Owner:        m.item.Owner,
		Deadline:     m.item.Deadline,
		MeetingID:    m.meeting.MeetingID,
		MeetingTitle: m.meeting.Title,
		CreatedAt:    m.item.CreatedAt.Format(time.RFC3339),
		RiskScore:    m.item.RiskScore,
		RiskLevel:    m.item.RiskLevel,
		Similarity:   scaleSimilarity(m.cos),
	}
}
