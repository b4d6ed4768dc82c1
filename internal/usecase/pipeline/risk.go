package pipeline

import (
	"strings"
	"time"

	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
)

// RiskScore rates how likely an action item is to stall, 0-100. Deadline
// pressure dominates; vague wording, missing owners and staleness add smaller
// contributions. now is injected so batch reruns score consistently.
func RiskScore(item *entities.ActionItem, now time.Time) int {
	score := 0

	// Deadline pressure
	if item.Deadline == nil {
		score += 20
	} else if deadline, err := time.Parse("2006-01-02", *item.Deadline); err == nil {
		daysLeft := int(deadline.Sub(now).Hours() / 24)
		switch {
		case daysLeft <= 0:
			score += 45
		case daysLeft <= 2:
			score += 40
		case daysLeft <= 5:
			score += 30
		case daysLeft <= 10:
			score += 15
		case daysLeft <= 20:
			score += 5
		}
	} else {
		// Unparseable deadline scores like no deadline
		score += 20
	}

	// Ownership
	if item.Owner == "" || item.Owner == entities.UnassignedOwner {
		score += 25
	}

	// Task vagueness
	words := len(strings.Fields(item.Task))
	switch {
	case words < 3:
		score += 20
	case words < 6:
		score += 10
	}

	// Staleness
	if !item.CreatedAt.IsZero() {
		daysOld := int(now.Sub(item.CreatedAt).Hours() / 24)
		switch {
		case daysOld > 14:
			score += 10
		case daysOld > 7:
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}
