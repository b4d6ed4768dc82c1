package repositories

import (
	"context"

	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
)

// MeetingResults carries every field the pipeline persists in the single
// DONE write. Results are written all at once: a meeting is either DONE with
// all of these populated or FAILED with none of them.
type MeetingResults struct {
	Transcript  string
	Summary     string
	Decisions   []string
	ActionItems []entities.ActionItem
	FollowUps   []string
}

// MeetingRepository defines meeting record persistence operations.
// All status writes are last-write-wins single-record updates.
type MeetingRepository interface {
	// GetMeeting returns nil, nil when the record does not exist.
	GetMeeting(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error)

	// MarkTranscribing upserts the record into TRANSCRIBING. The upsert covers
	// the case where the upload collaborator's PENDING write never landed.
	MarkTranscribing(ctx context.Context, ownerID, meetingID, title, objectKey string) error

	// MarkAnalyzing transitions to ANALYZING and stores the truncated transcript.
	MarkAnalyzing(ctx context.Context, ownerID, meetingID, transcript string) error

	// MarkDone transitions to DONE and persists all extraction results at once.
	MarkDone(ctx context.Context, ownerID, meetingID string, results MeetingResults) error

	// MarkFailed transitions to FAILED with a human-readable reason.
	MarkFailed(ctx context.Context, ownerID, meetingID, reason string) error

	// MarkFailedIfNotTerminal transitions to FAILED only when the meeting is not
	// already DONE or FAILED. Returns whether a transition happened.
	MarkFailedIfNotTerminal(ctx context.Context, ownerID, meetingID, reason string) (bool, error)

	// ListByOwner returns every meeting belonging to one owner.
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Meeting, error)

	// ListPage returns one page of the full meeting corpus ordered by primary
	// key, for batch scans.
	ListPage(ctx context.Context, offset, limit int) ([]entities.Meeting, error)

	// UpdateActionItems rewrites a meeting's whole action-item list.
	UpdateActionItems(ctx context.Context, ownerID, meetingID string, items []entities.ActionItem) error
}
