package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/thecyberprinciples/meetingmind/internal/domain/entities"
)

// Parser handles parsing and validation of model responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseInsights parses the model's JSON response into ExtractedInsights.
// Model output is untrusted: code fences are stripped, sentinel deadlines are
// normalized, and missing collections come back as empty slices.
func (p *Parser) ParseInsights(raw string) (*entities.ExtractedInsights, error) {
	jsonString := extractJSON(raw)

	var result entities.ExtractedInsights
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := p.normalize(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// normalize validates required fields and cleans up model quirks in place
func (p *Parser) normalize(result *entities.ExtractedInsights) error {
	result.Summary = strings.TrimSpace(result.Summary)
	if result.Summary == "" {
		return fmt.Errorf("missing summary in response")
	}

	if result.Decisions == nil {
		result.Decisions = make([]string, 0)
	}
	if result.ActionItems == nil {
		result.ActionItems = make([]entities.ExtractedActionItem, 0)
	}
	if result.FollowUps == nil {
		result.FollowUps = make([]string, 0)
	}

	seen := make(map[string]bool, len(result.ActionItems))
	for i := range result.ActionItems {
		item := &result.ActionItems[i]

		item.Task = strings.TrimSpace(item.Task)
		if item.Owner == "" {
			item.Owner = entities.UnassignedOwner
		}
		item.Deadline = normalizeDeadline(item.Deadline)

		// Models repeat ids or omit them. Every item leaves the parser with a
		// globally unique id.
		if item.ID == "" || seen[item.ID] {
			item.ID = uuid.New().String()
		}
		seen[item.ID] = true
	}

	return nil
}

// normalizeDeadline maps sentinel strings models emit for "no deadline" to nil
func normalizeDeadline(deadline *string) *string {
	if deadline == nil {
		return nil
	}
	switch strings.TrimSpace(*deadline) {
	case "", "null", "None", "N/A", "TBD":
		return nil
	}
	trimmed := strings.TrimSpace(*deadline)
	return &trimmed
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
