package escalation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thecyberprinciples/meetingmind/internal/domain/repositories"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/pipeline"
)

// Notifier delivers escalation alerts for meetings that exhausted their
// processing attempts.
type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

// LogNotifier writes escalation alerts to the structured log. It stands in
// for a paging or email integration.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the alert at error level so it reaches the on-call feed
func (n *LogNotifier) Notify(ctx context.Context, subject, message string) error {
	n.logger.Error("🚨 "+subject, zap.String("detail", message))
	return nil
}

// Result reports how one dead-letter item was handled
type Result struct {
	OwnerID      string `json:"ownerId"`
	MeetingID    string `json:"meetingId"`
	Transitioned bool   `json:"transitioned"`
	Notified     bool   `json:"notified"`
}

// Service is the terminal failure handler for uploads whose processing
// exhausted every retry.
type Service interface {
	HandleDeadLetter(ctx context.Context, objectKey, errorMessage string) (*Result, error)
}

type service struct {
	meetingRepo repositories.MeetingRepository
	notifier    Notifier
	logger      *zap.Logger
}

// NewService creates the escalation service
func NewService(meetingRepo repositories.MeetingRepository, notifier Notifier, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		meetingRepo: meetingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// HandleDeadLetter records terminal failure for the meeting behind a
// dead-lettered upload and raises an alert. A meeting that already reached
// DONE or FAILED keeps its status; the alert is raised either way.
func (s *service) HandleDeadLetter(ctx context.Context, objectKey, errorMessage string) (*Result, error) {
	key, err := pipeline.ParseTriggerKey(objectKey)
	if err != nil {
		s.logger.Error("❌ Dead-lettered object has malformed key",
			zap.String("object_key", objectKey),
			zap.String("error_message", errorMessage),
		)
		return nil, err
	}

	result := &Result{OwnerID: key.OwnerID, MeetingID: key.MeetingID}

	reason := errorMessage
	if reason == "" {
		reason = "processing exhausted all retries"
	}

	transitioned, err := s.meetingRepo.MarkFailedIfNotTerminal(ctx, key.OwnerID, key.MeetingID, reason)
	if err != nil {
		return nil, err
	}
	result.Transitioned = transitioned
	if !transitioned {
		s.logger.Info("meeting already terminal, leaving status untouched",
			zap.String("owner_id", key.OwnerID),
			zap.String("meeting_id", key.MeetingID),
		)
	}

	subject := fmt.Sprintf("Meeting processing failed permanently: %s/%s", key.OwnerID, key.MeetingID)
	message := fmt.Sprintf("object=%s reason=%s", objectKey, reason)
	if err := s.notifier.Notify(ctx, subject, message); err != nil {
		s.logger.Error("failed to deliver escalation alert", zap.Error(err))
	} else {
		result.Notified = true
	}

	return result, nil
}
