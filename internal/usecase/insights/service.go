package insights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/generation"
)

const extractionPromptTemplate = `You are an expert meeting analyst. Analyze the following meeting transcript and extract structured insights.

Return ONLY a JSON object with exactly these fields:
{
  "summary": "2-3 sentence executive summary of the meeting",
  "decisions": ["each concrete decision that was made"],
  "action_items": [
    {
      "id": "short unique id",
      "task": "what needs to be done",
      "owner": "person responsible, or 'Unassigned'",
      "deadline": "YYYY-MM-DD or null",
      "completed": false
    }
  ],
  "follow_ups": ["open questions or topics to revisit"]
}

Rules:
- Extract only what the transcript supports. Do not invent tasks or owners.
- Use speaker names exactly as they appear in the transcript.
- Resolve relative deadlines ("next Friday", "end of the month") against the meeting date.
- Return valid JSON with no markdown fences and no commentary.

Meeting: %s
Date: %s

Transcript:
%s`

// Service extracts structured insights from a meeting transcript
type Service interface {
	Extract(ctx context.Context, transcript, title string) (*entities.ExtractedInsights, error)
}

type service struct {
	chain          *generation.Chain
	parser         *Parser
	promptMaxChars int
	now            func() time.Time
	logger         *zap.Logger
}

// NewService creates an insight extraction service. promptMaxChars bounds how
// much transcript is sent to the model; 0 uses the default.
func NewService(chain *generation.Chain, promptMaxChars int, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if promptMaxChars <= 0 {
		promptMaxChars = 15000
	}
	return &service{
		chain:          chain,
		parser:         NewParser(),
		promptMaxChars: promptMaxChars,
		now:            time.Now,
		logger:         logger,
	}
}

// Extract runs the transcript through the model chain and parses the result.
// Extraction has no degraded mode: any chain or parse failure is terminal for
// the caller's pipeline run.
func (s *service) Extract(ctx context.Context, transcript, title string) (*entities.ExtractedInsights, error) {
	if transcript == "" {
		return nil, apperrors.ErrExtractionFailed(fmt.Errorf("empty transcript"))
	}

	bounded := transcript
	if len(bounded) > s.promptMaxChars {
		bounded = bounded[:s.promptMaxChars]
	}
	// The meeting date anchors relative deadlines in the transcript
	date := s.now().UTC().Format("2006-01-02")
	prompt := fmt.Sprintf(extractionPromptTemplate, title, date, bounded)

	result, err := s.chain.Generate(ctx, prompt)
	if err != nil {
		return nil, apperrors.ErrExtractionFailed(err)
	}

	insights, err := s.parser.ParseInsights(result.Text)
	if err != nil {
		s.logger.Error("❌ Failed to parse extraction response",
			zap.String("provider", result.Provider),
			zap.Error(err),
		)
		return nil, apperrors.ErrExtractionFailed(err)
	}

	s.logger.Info("✅ Insights extracted",
		zap.String("provider", result.Provider),
		zap.Int("decisions", len(insights.Decisions)),
		zap.Int("action_items", len(insights.ActionItems)),
		zap.Int("follow_ups", len(insights.FollowUps)),
	)
	return insights, nil
}
