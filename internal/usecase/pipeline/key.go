package pipeline

import (
	"path"
	"strings"

	apperrors "github.com/thecyberprinciples/meetingmind/errors"
)

// extToFormat maps audio file extensions to the media format label used for
// transcription. Unknown extensions default to mp3.
var extToFormat = map[string]string{
	"mp3":  "mp3",
	"wav":  "wav",
	"m4a":  "mp4",
	"mp4":  "mp4",
	"webm": "webm",
}

// TriggerKey is the parsed form of an uploaded audio object key. Keys follow
// "audio/{ownerId}__{meetingId}__{title}.{ext}" where the title carries
// hyphens in place of spaces.
type TriggerKey struct {
	OwnerID   string
	MeetingID string
	Title     string
	Format    string
}

// ParseTriggerKey extracts the owner, meeting and title from an object key.
// Fewer than three segments is a malformed upload, not a pipeline failure.
func ParseTriggerKey(objectKey string) (*TriggerKey, error) {
	filename := path.Base(objectKey)

	ext := strings.TrimPrefix(path.Ext(filename), ".")
	name := strings.TrimSuffix(filename, path.Ext(filename))

	parts := strings.Split(name, "__")
	if len(parts) < 3 {
		return nil, apperrors.ErrTriggerKeyParse(objectKey)
	}

	format, ok := extToFormat[strings.ToLower(ext)]
	if !ok {
		format = "mp3"
	}

	return &TriggerKey{
		OwnerID:   parts[0],
		MeetingID: parts[1],
		Title:     strings.ReplaceAll(parts[2], "-", " "),
		Format:    format,
	}, nil
}
