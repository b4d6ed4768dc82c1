package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/thecyberprinciples/meetingmind/errors"
	"github.com/thecyberprinciples/meetingmind/internal/domain/repositories"
)

// Meeting handles meeting record reads
type Meeting struct {
	meetingRepo repositories.MeetingRepository
	logger      *zap.Logger
}

// NewMeeting creates a meeting handler
func NewMeeting(meetingRepo repositories.MeetingRepository, logger *zap.Logger) *Meeting {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Meeting{
		meetingRepo: meetingRepo,
		logger:      logger,
	}
}

// Get returns one meeting with its status and extracted insights
func (h *Meeting) Get(c echo.Context) error {
	ownerID := c.Param("ownerId")
	meetingID := c.Param("meetingId")
	if ownerID == "" || meetingID == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("ownerId and meetingId are required"))
	}

	meeting, err := h.meetingRepo.GetMeeting(c.Request().Context(), ownerID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrPersistenceFailed("get meeting", err))
	}
	if meeting == nil {
		return HandleError(h.logger, c, apperrors.ErrMeetingNotFound(ownerID, meetingID))
	}

	return HandleSuccess(h.logger, c, meeting)
}

// List returns every meeting for one owner, newest first
func (h *Meeting) List(c echo.Context) error {
	ownerID := c.Param("ownerId")
	if ownerID == "" {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("ownerId is required"))
	}

	meetings, err := h.meetingRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrPersistenceFailed("list meetings", err))
	}

	return HandleSuccess(h.logger, c, meetings)
}
