package entities

// DuplicateMatch is one stored action item that scored at or above the
// duplicate threshold against a candidate task. Similarity is reported as a
// 0-100 percentage with one decimal, matching the duplicate-check wire format.
type DuplicateMatch struct {
	ID           string    `json:"id"`
	Task         string    `json:"task"`
	Owner        string    `json:"owner"`
	Deadline     *string   `json:"deadline"`
	MeetingID    string    `json:"meetingId"`
	MeetingTitle string    `json:"meetingTitle"`
	CreatedAt    string    `json:"createdAt"`
	RiskScore    int       `json:"riskScore"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	Similarity   float64   `json:"similarity"`
}

// SimilarityHistoryEntry is a weaker match kept for context only.
type SimilarityHistoryEntry struct {
	Task         string  `json:"task"`
	Date         string  `json:"date"`
	MeetingTitle string  `json:"meetingTitle"`
	Similarity   float64 `json:"similarity"`
}

// DuplicateCheck is the full result of semantic duplicate detection for one
// candidate task against the owner's incomplete action-item corpus.
type DuplicateCheck struct {
	IsDuplicate      bool                     `json:"isDuplicate"`
	Similarity       float64                  `json:"similarity"`
	BestMatch        *DuplicateMatch          `json:"bestMatch"`
	AllDuplicates    []DuplicateMatch         `json:"allDuplicates"`
	History          []SimilarityHistoryEntry `json:"history"`
	IsChronicBlocker bool                     `json:"isChronicBlocker"`
	RepeatCount      int                      `json:"repeatCount"`
}
