package repository

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
	"github.com/thecyberprinciples/meetingmind/internal/domain/repositories"
)

// meetingRepository implements repositories.MeetingRepository using GORM
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// GetMeeting retrieves a meeting by its composite key
func (r *meetingRepository) GetMeeting(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND meeting_id = ?", ownerID, meetingID).
		First(&meeting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// MarkTranscribing upserts the meeting record into TRANSCRIBING
func (r *meetingRepository) MarkTranscribing(ctx context.Context, ownerID, meetingID, title, objectKey string) error {
	meeting := entities.Meeting{
		OwnerID:   ownerID,
		MeetingID: meetingID,
		Title:     title,
		Status:    entities.MeetingStatusTranscribing,
		ObjectKey: objectKey,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_id"}, {Name: "meeting_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "status", "object_key", "updated_at",
			}),
		}).
		Create(&meeting).Error
}

// MarkAnalyzing transitions the meeting to ANALYZING with its transcript
func (r *meetingRepository) MarkAnalyzing(ctx context.Context, ownerID, meetingID, transcript string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("owner_id = ? AND meeting_id = ?", ownerID, meetingID).
		Updates(map[string]interface{}{
			"status":     entities.MeetingStatusAnalyzing,
			"transcript": transcript,
		}).Error
}

// MarkDone transitions the meeting to DONE with all extraction results
func (r *meetingRepository) MarkDone(ctx context.Context, ownerID, meetingID string, results repositories.MeetingResults) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("owner_id = ? AND meeting_id = ?", ownerID, meetingID).
		Updates(map[string]interface{}{
			"status":        entities.MeetingStatusDone,
			"transcript":    results.Transcript,
			"summary":       results.Summary,
			"decisions":     datatypes.NewJSONSlice(results.Decisions),
			"action_items":  datatypes.NewJSONSlice(results.ActionItems),
			"follow_ups":    datatypes.NewJSONSlice(results.FollowUps),
			"error_message": "",
		}).Error
}

// MarkFailed transitions the meeting to FAILED with a reason
func (r *meetingRepository) MarkFailed(ctx context.Context, ownerID, meetingID, reason string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("owner_id = ? AND meeting_id = ?", ownerID, meetingID).
		Updates(map[string]interface{}{
			"status":        entities.MeetingStatusFailed,
			"error_message": reason,
		}).Error
}

// MarkFailedIfNotTerminal transitions to FAILED unless already DONE or FAILED
func (r *meetingRepository) MarkFailedIfNotTerminal(ctx context.Context, ownerID, meetingID, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("owner_id = ? AND meeting_id = ?", ownerID, meetingID).
		Where("status NOT IN ?", []entities.MeetingStatus{
			entities.MeetingStatusDone,
			entities.MeetingStatusFailed,
		}).
		Updates(map[string]interface{}{
			"status":        entities.MeetingStatusFailed,
			"error_message": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByOwner returns every meeting for one owner, newest first
func (r *meetingRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// ListPage returns one page of meetings ordered by primary key
func (r *meetingRepository) ListPage(ctx context.Context, offset, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	err := r.db.WithContext(ctx).
		Order("owner_id, meeting_id").
		Offset(offset).
		Limit(limit).
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// UpdateActionItems rewrites a meeting's action-item list
func (r *meetingRepository) UpdateActionItems(ctx context.Context, ownerID, meetingID string, items []entities.ActionItem) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("owner_id = ? AND meeting_id = ?", ownerID, meetingID).
		Updates(map[string]interface{}{
			"action_items": datatypes.NewJSONSlice(items),
		}).Error
}
