package action

// CheckDuplicateRequest asks whether a task already exists for an owner
type CheckDuplicateRequest struct {
	OwnerID string `json:"ownerId" validate:"required"`
	Task    string `json:"task" validate:"required,min=1"`
}
