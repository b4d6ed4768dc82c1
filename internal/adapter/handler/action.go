package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/adapter/dto/action"
	"github.com/thecyberprinciples/meetingmind/internal/usecase/similarity"
)

// Action handles action-item level operations
type Action struct {
	similarityService similarity.Service
	logger            *zap.Logger
}

// NewAction creates an action handler
func NewAction(similarityService similarity.Service, logger *zap.Logger) *Action {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Action{
		similarityService: similarityService,
		logger:            logger,
	}
}

// CheckDuplicate scores a candidate task against the owner's stored items
func (h *Action) CheckDuplicate(c echo.Context) error {
	var req action.CheckDuplicateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.similarityService.CheckDuplicate(c.Request().Context(), req.OwnerID, req.Task)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, result)
}
