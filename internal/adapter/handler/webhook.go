package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/adapter/dto/webhook"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/escalation"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/pipeline"
)

// processingTimeout bounds one background pipeline run. It must cover the
// worst-case transcription poll budget (48 attempts x 15s) plus extraction.
const processingTimeout = 20 * time.Minute

// Webhook handles storage and dead-letter notifications
type Webhook struct {
	pipelineService   pipeline.Service
	escalationService escalation.Service
	logger            *zap.Logger
}

// NewWebhook creates a webhook handler
func NewWebhook(pipelineService pipeline.Service, escalationService escalation.Service, logger *zap.Logger) *Webhook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Webhook{
		pipelineService:   pipelineService,
		escalationService: escalationService,
		logger:            logger,
	}
}

// StorageEvent accepts an upload notification and runs the pipeline in the
// background. The key is validated synchronously so malformed uploads are
// rejected immediately; everything after that reports through meeting status.
func (h *Webhook) StorageEvent(c echo.Context) error {
	var req webhook.StorageEventRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	key, err := pipeline.ParseTriggerKey(req.Key)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processingTimeout)
		defer cancel()

		if err := h.pipelineService.ProcessUpload(ctx, req.Key); err != nil {
			h.logger.Error("❌ Background pipeline run failed",
				zap.String("object_key", req.Key),
				zap.Error(err),
			)
		}
	}()

	return HandleSuccess(h.logger, c, webhook.StorageEventResponse{
		OwnerID:   key.OwnerID,
		MeetingID: key.MeetingID,
		Accepted:  true,
	})
}

// DeadLetter records terminal failure for an upload whose processing
// exhausted every retry.
func (h *Webhook) DeadLetter(c echo.Context) error {
	var req webhook.DeadLetterRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.escalationService.HandleDeadLetter(c.Request().Context(), req.Key, req.ErrorMessage)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, result)
}
