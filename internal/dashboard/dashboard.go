// Package dashboard derives aggregate counts and previews from the issue store.
package dashboard

import (
	"context"
	"fmt"

	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/store"
)

// DefaultPreview is the number of recent issues shown on the dashboard.
const DefaultPreview = 5

// Stats holds per-status issue counts.
type Stats struct {
	Total      int `json:"total"`
	Submitted  int `json:"submitted"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// Summary is everything the dashboard view renders.
type Summary struct {
	Stats        Stats           `json:"stats"`
	ByDepartment map[string]int  `json:"by_department"`
	Recent       []*models.Issue `json:"recent"`
}

// Aggregate counts issues by status. Recomputed from scratch on every call.
func Aggregate(issues []*models.Issue) Stats {
	return Stats{
		Total:      len(issues),
		Submitted:  countStatus(issues, models.IssueStatusSubmitted),
		InProgress: countStatus(issues, models.IssueStatusInProgress),
		Completed:  countStatus(issues, models.IssueStatusCompleted),
	}
}

func countStatus(issues []*models.Issue, status models.IssueStatus) int {
	n := 0
	for _, i := range issues {
		if i.Status == status {
			n++
		}
	}
	return n
}

// Recent returns the first n issues of a newest-first list.
func Recent(issues []*models.Issue, n int) []*models.Issue {
	if n <= 0 {
		return nil
	}
	return issues[:min(n, len(issues))]
}

// ByDepartment counts issues per department id.
func ByDepartment(issues []*models.Issue) map[string]int {
	counts := make(map[string]int)
	for _, i := range issues {
		counts[i.Department]++
	}
	return counts
}

// Build reads the whole store and returns a fresh summary with n recent issues.
func Build(ctx context.Context, s store.Store, n int) (*Summary, error) {
	issues, err := s.ListIssues(ctx, store.IssueListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return &Summary{
		Stats:        Aggregate(issues),
		ByDepartment: ByDepartment(issues),
		Recent:       Recent(issues, n),
	}, nil
}
