package entities

import (
	"time"

	"gorm.io/datatypes"
)

// MeetingStatus is the processing state of a meeting recording.
// The values are a stable contract consumed by listing/display collaborators
// and must not be renamed.
type MeetingStatus string

const (
	MeetingStatusPending      MeetingStatus = "PENDING"
	MeetingStatusTranscribing MeetingStatus = "TRANSCRIBING"
	MeetingStatusAnalyzing    MeetingStatus = "ANALYZING"
	MeetingStatusDone         MeetingStatus = "DONE"
	MeetingStatusFailed       MeetingStatus = "FAILED"
)

// IsTerminal reports whether no further pipeline transition is allowed.
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusDone || s == MeetingStatusFailed
}

// Meeting is one uploaded recording and everything the pipeline derived from it.
// The pipeline coordinator owns all status transitions until DONE/FAILED;
// afterwards action items are mutated in place via whole-list rewrite.
type Meeting struct {
	OwnerID      string                            `json:"owner_id" gorm:"type:varchar(64);primaryKey"`
	MeetingID    string                            `json:"meeting_id" gorm:"type:varchar(64);primaryKey"`
	Title        string                            `json:"title" gorm:"type:varchar(500)"`
	Status       MeetingStatus                     `json:"status" gorm:"type:varchar(20);not null;index"`
	ObjectKey    string                            `json:"object_key" gorm:"type:text"`
	Transcript   string                            `json:"transcript,omitempty" gorm:"type:text"`
	Summary      string                            `json:"summary,omitempty" gorm:"type:text"`
	Decisions    datatypes.JSONSlice[string]       `json:"decisions,omitempty" gorm:"type:jsonb"`
	ActionItems  datatypes.JSONSlice[ActionItem]   `json:"action_items,omitempty" gorm:"type:jsonb"`
	FollowUps    datatypes.JSONSlice[string]       `json:"follow_ups,omitempty" gorm:"type:jsonb"`
	ErrorMessage string                            `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt    time.Time                         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time                         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}
