package entities

import "time"

// RiskLevel buckets a numeric risk score for display.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// UnassignedOwner is the placeholder owner for action items nobody claimed.
const UnassignedOwner = "Unassigned"

// ActionItem is a task extracted from a meeting transcript. Items live as a
// JSON list embedded in their parent meeting; any single-item update rewrites
// the whole list. IDs are globally unique on write (legacy rows may violate
// this, which is a data-migration concern outside this service).
//
// JSON field names are camelCase to match the wire format consumed by the
// frontend and the duplicate-check API.
type ActionItem struct {
	ID                 string     `json:"id"`
	Task               string     `json:"task"`
	Owner              string     `json:"owner"`
	Deadline           *string    `json:"deadline"` // YYYY-MM-DD, nil when none was mentioned
	Completed          bool       `json:"completed"`
	RiskScore          int        `json:"riskScore"`
	RiskLevel          RiskLevel  `json:"riskLevel"`
	CreatedAt          time.Time  `json:"createdAt"`
	Embedding          []float64  `json:"embedding,omitempty"`
	Epitaph            string     `json:"epitaph,omitempty"`
	EpitaphGeneratedAt *time.Time `json:"epitaphGeneratedAt,omitempty"`
}

// RiskLevelForScore converts a numeric risk score to its level.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 75:
		return RiskLevelCritical
	case score >= 50:
		return RiskLevelHigh
	case score >= 25:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
