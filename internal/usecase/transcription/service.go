package transcription

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	apperrors "github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/cache"
	"github.com/thecyberprinciples/meetingmind/pkg/config"
)

const jobKeyPrefix = "transcribe:job:"

// Service turns an audio URL into a transcript. Submissions are idempotent
// per meeting: a second call while a job is running joins the existing job
// instead of starting another one.
type Service interface {
	Transcribe(ctx context.Context, meetingID, audioURL string) (string, error)
}

type service struct {
	speech       SpeechClient
	registry     cache.Store
	logger       *zap.Logger
	pollInterval time.Duration
	maxAttempts  int
	registryTTL  time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewService creates a transcription service
func NewService(speech SpeechClient, registry cache.Store, cfg *config.PipelineConfig, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	pollInterval := 15 * time.Second
	maxAttempts := 48
	registryTTL := 24 * time.Hour
	if cfg != nil {
		if cfg.PollInterval > 0 {
			pollInterval = cfg.PollInterval
		}
		if cfg.PollMaxAttempts > 0 {
			maxAttempts = cfg.PollMaxAttempts
		}
		if cfg.JobRegistryTTL > 0 {
			registryTTL = cfg.JobRegistryTTL
		}
	}

	return &service{
		speech:       speech,
		registry:     registry,
		logger:       logger,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		registryTTL:  registryTTL,
		sleep:        sleepContext,
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

// Transcribe starts or joins the transcription job for this meeting, then
// polls until the job reaches a terminal state or the attempt budget runs out.
func (s *service) Transcribe(ctx context.Context, meetingID, audioURL string) (string, error) {
	jobID, err := s.startOrJoinJob(ctx, meetingID, audioURL)
	if err != nil {
		return "", err
	}

	s.logger.Info("🎙️ Polling transcription job",
		zap.String("meeting_id", meetingID),
		zap.String("job_id", jobID),
	)

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		job, err := s.speech.GetJob(ctx, jobID)
		if err != nil {
			// Transient API error, keep polling
			s.logger.Warn("failed to poll transcription job",
				zap.String("job_id", jobID),
				zap.Error(err),
			)
		} else {
			switch job.State {
			case JobStateCompleted:
				s.registry.Delete(ctx, jobKeyPrefix+meetingID)
				return job.Text, nil
			case JobStateFailed:
				s.registry.Delete(ctx, jobKeyPrefix+meetingID)
				return "", apperrors.ErrTranscriptionFailed(job.FailureReason, nil)
			}
		}

		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return "", err
		}
	}

	return "", apperrors.ErrTranscriptionTimeout()
}

// startOrJoinJob returns the provider job id for this meeting, submitting a
// new job only when no live one is registered.
func (s *service) startOrJoinJob(ctx context.Context, meetingID, audioURL string) (string, error) {
	key := jobKeyPrefix + meetingID

	if existing, found, err := s.registry.Get(ctx, key); err != nil {
		return "", apperrors.ErrCacheFailed("get job registry", err)
	} else if found {
		s.logger.Info("joining existing transcription job",
			zap.String("meeting_id", meetingID),
			zap.String("job_id", existing),
		)
		return existing, nil
	}

	var jobID string
	submitFn := func() error {
		id, err := s.speech.SubmitFromURL(ctx, audioURL)
		if err != nil {
			return err
		}
		jobID = id
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		return "", apperrors.ErrTranscriptionFailed("failed to submit transcription job", err)
	}

	claimed, registered, err := s.registry.Register(ctx, key, jobID, s.registryTTL)
	if err != nil {
		return "", apperrors.ErrCacheFailed("register job", err)
	}
	if !claimed && registered != "" {
		// Lost the race to a concurrent submit. Join the winner's job; ours
		// stays orphaned at the provider.
		s.logger.Warn("concurrent transcription submit detected, joining registered job",
			zap.String("meeting_id", meetingID),
			zap.String("submitted_job_id", jobID),
			zap.String("registered_job_id", registered),
		)
		return registered, nil
	}

	s.logger.Info("✅ Transcription job submitted",
		zap.String("meeting_id", meetingID),
		zap.String("job_id", jobID),
	)
	return jobID, nil
}
