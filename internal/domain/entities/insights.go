package entities

// ExtractedInsights is the structured output of LLM meeting analysis.
// The JSON shape is a stable contract with the extraction prompt.
type ExtractedInsights struct {
	Summary     string                `json:"summary"`
	Decisions   []string              `json:"decisions"`
	ActionItems []ExtractedActionItem `json:"action_items"`
	FollowUps   []string              `json:"follow_ups"`
}

// ExtractedActionItem is an action item as returned by the model, before
// risk scoring and embedding enrichment.
type ExtractedActionItem struct {
	ID        string  `json:"id"`
	Task      string  `json:"task"`
	Owner     string  `json:"owner"`
	Deadline  *string `json:"deadline"`
	Completed bool    `json:"completed"`
}
