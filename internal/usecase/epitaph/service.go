package epitaph

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
	"github.com/thecyberprinciples/meetingmind/internal/domain/repositories"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/generation"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

const epitaphPromptTemplate = `Write a short, darkly humorous epitaph (one or two sentences) for a task that died of neglect. Refer to the task, do not mock the owner.

Task: %q
Owner: %s
Age: %d days

Return only the epitaph text, no quotes, no commentary.`

// fallbackTemplates are used when every generation candidate fails. Selection
// hashes the prompt so the same dead task always gets the same epitaph.
var fallbackTemplates = []string{
	"Here lies a task that waited for a someday that never came.",
	"Gone but not completed. It asked for so little, and received even less.",
	"In loving memory of a task assigned with hope and abandoned with silence.",
	"It survived four standups, two reorgs, and zero follow-ups.",
	"Rest in backlog. It shall be groomed no more.",
}

// FallbackEpitaph deterministically picks a canned epitaph for the input
func FallbackEpitaph(input string) string {
	h := fnv.New32a()
	h.Write([]byte(input))
	return fallbackTemplates[int(h.Sum32())%len(fallbackTemplates)]
}

// Summary reports one batch run
type Summary struct {
	TotalScanned int       `json:"totalScanned"`
	Eligible     int       `json:"eligible"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	Timestamp    time.Time `json:"timestamp"`
}

// Service is the nightly graveyard batch: it finds long-neglected incomplete
// action items and writes them an epitaph.
type Service interface {
	Run(ctx context.Context) (*Summary, error)
}

type service struct {
	meetingRepo    repositories.MeetingRepository
	chain          *generation.Chain
	graveyardDays  int
	ttlDays        int
	taskTruncation int
	itemSleep      time.Duration
	pageSize       int
	now            func() time.Time
	sleep          func(ctx context.Context, d time.Duration) error
	logger         *zap.Logger
}

// NewService creates the epitaph batch service
func NewService(meetingRepo repositories.MeetingRepository, chain *generation.Chain, cfg *config.EpitaphConfig, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	graveyardDays := 30
	ttlDays := 7
	taskTruncation := 80
	itemSleep := time.Second
	pageSize := 100
	if cfg != nil {
		if cfg.GraveyardDays > 0 {
			graveyardDays = cfg.GraveyardDays
		}
		if cfg.TTLDays > 0 {
			ttlDays = cfg.TTLDays
		}
		if cfg.TaskTruncation > 0 {
			taskTruncation = cfg.TaskTruncation
		}
		if cfg.ItemSleep > 0 {
			itemSleep = cfg.ItemSleep
		}
		if cfg.PageSize > 0 {
			pageSize = cfg.PageSize
		}
	}

	return &service{
		meetingRepo:    meetingRepo,
		chain:          chain,
		graveyardDays:  graveyardDays,
		ttlDays:        ttlDays,
		taskTruncation: taskTruncation,
		itemSleep:      itemSleep,
		pageSize:       pageSize,
		now:            time.Now,
		sleep:          sleepContext,
		logger:         logger,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run scans the full meeting corpus page by page and generates epitaphs for
// eligible items. Generation is serial with a pause between items so one batch
// cannot exhaust the provider quota.
func (s *service) Run(ctx context.Context) (*Summary, error) {
	now := s.now().UTC()
	summary := &Summary{Timestamp: now}

	for offset := 0; ; offset += s.pageSize {
		meetings, err := s.meetingRepo.ListPage(ctx, offset, s.pageSize)
		if err != nil {
			return summary, err
		}
		if len(meetings) == 0 {
			break
		}

		for mi := range meetings {
			meeting := &meetings[mi]
			wrote := 0

			for ii := range meeting.ActionItems {
				item := &meeting.ActionItems[ii]
				summary.TotalScanned++

				if !s.eligible(item, now) {
					continue
				}
				summary.Eligible++

				if summary.Eligible > 1 {
					if err := s.sleep(ctx, s.itemSleep); err != nil {
						return summary, err
					}
				}

				if s.writeEpitaph(ctx, item, now) {
					wrote++
				} else {
					summary.Failed++
				}
			}

			if wrote == 0 {
				continue
			}

			// An epitaph only counts as succeeded once it is persisted
			items := []entities.ActionItem(meeting.ActionItems)
			if err := s.meetingRepo.UpdateActionItems(ctx, meeting.OwnerID, meeting.MeetingID, items); err != nil {
				s.logger.Error("❌ Failed to persist epitaphs",
					zap.String("owner_id", meeting.OwnerID),
					zap.String("meeting_id", meeting.MeetingID),
					zap.Error(err),
				)
				summary.Failed += wrote
			} else {
				summary.Succeeded += wrote
			}
		}

		if len(meetings) < s.pageSize {
			break
		}
	}

	s.logger.Info("🪦 Epitaph batch completed",
		zap.Int("scanned", summary.TotalScanned),
		zap.Int("eligible", summary.Eligible),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// eligible reports whether the item belongs in the graveyard and needs a new
// epitaph. Fresh epitaphs within their TTL are left alone.
func (s *service) eligible(item *entities.ActionItem, now time.Time) bool {
	if item.Completed || item.Task == "" || item.CreatedAt.IsZero() {
		return false
	}

	daysOld := int(now.Sub(item.CreatedAt).Hours() / 24)
	if daysOld <= s.graveyardDays {
		return false
	}

	if item.Epitaph != "" && item.EpitaphGeneratedAt != nil {
		daysSince := now.Sub(*item.EpitaphGeneratedAt).Hours() / 24
		if daysSince <= float64(s.ttlDays) {
			return false
		}
	}
	return true
}

// writeEpitaph generates and stores an epitaph on the item, reporting success
func (s *service) writeEpitaph(ctx context.Context, item *entities.ActionItem, now time.Time) bool {
	task := strings.TrimSpace(item.Task)
	if len(task) > s.taskTruncation {
		task = task[:s.taskTruncation]
	}
	daysOld := int(now.Sub(item.CreatedAt).Hours() / 24)
	prompt := fmt.Sprintf(epitaphPromptTemplate, task, item.Owner, daysOld)

	result, err := s.chain.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("epitaph generation failed",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		return false
	}

	epitaph := strings.TrimSpace(strings.Trim(strings.TrimSpace(result.Text), `"`))
	if epitaph == "" {
		return false
	}

	generatedAt := now
	item.Epitaph = epitaph
	item.EpitaphGeneratedAt = &generatedAt
	return true
}
