package webhook

// StorageEventRequest is the notification for a finished audio upload.
// Key must follow "audio/{ownerId}__{meetingId}__{title}.{ext}".
type StorageEventRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key" validate:"required"`
}

// StorageEventResponse acknowledges that processing was accepted
type StorageEventResponse struct {
	OwnerID   string `json:"ownerId"`
	MeetingID string `json:"meetingId"`
	Accepted  bool   `json:"accepted"`
}

// DeadLetterRequest is the replayed payload of an upload whose processing
// exhausted every retry.
type DeadLetterRequest struct {
	Key          string `json:"key" validate:"required"`
	ErrorMessage string `json:"errorMessage"`
}
