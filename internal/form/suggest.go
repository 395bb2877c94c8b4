package form

import (
	"strings"

	"github.com/joescharf/seva/internal/models"
)

// SuggestUrgency infers urgency from free text using keyword heuristics.
// High keywords are checked before low keywords. Defaults to medium.
func SuggestUrgency(text string) models.IssueUrgency {
	lower := strings.ToLower(text)

	highKeywords := []string{
		"urgent", "emergency", "danger", "accident", "injur", "collapse",
		"live wire", "electrocut", "fire", "flood", "blocked",
	}
	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return models.IssueUrgencyHigh
		}
	}

	lowKeywords := []string{
		"minor", "cosmetic", "suggestion", "faded", "paint", "whenever",
	}
	for _, kw := range lowKeywords {
		if strings.Contains(lower, kw) {
			return models.IssueUrgencyLow
		}
	}

	return models.IssueUrgencyMedium
}
