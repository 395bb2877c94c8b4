package dashboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/store"
)

func issue(n int, dept string, status models.IssueStatus) *models.Issue {
	return &models.Issue{ID: fmt.Sprintf("JH%d", n), Department: dept, Status: status}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, Aggregate(nil))
}

func TestAggregate_CountsByStatus(t *testing.T) {
	issues := []*models.Issue{
		issue(1, "power", models.IssueStatusSubmitted),
		issue(2, "power", models.IssueStatusInProgress),
		issue(3, "water", models.IssueStatusSubmitted),
		issue(4, "water", models.IssueStatusCompleted),
	}

	stats := Aggregate(issues)
	assert.Equal(t, Stats{Total: 4, Submitted: 2, InProgress: 1, Completed: 1}, stats)
	assert.Equal(t, stats.Total, stats.Submitted+stats.InProgress+stats.Completed)
}

func TestRecent(t *testing.T) {
	issues := []*models.Issue{issue(3, "a", ""), issue(2, "a", ""), issue(1, "a", "")}

	assert.Len(t, Recent(issues, 2), 2)
	assert.Equal(t, "JH3", Recent(issues, 2)[0].ID)
	assert.Len(t, Recent(issues, 10), 3)
	assert.Nil(t, Recent(issues, 0))
}

func TestByDepartment(t *testing.T) {
	issues := []*models.Issue{
		issue(1, "power", models.IssueStatusSubmitted),
		issue(2, "power", models.IssueStatusSubmitted),
		issue(3, "water", models.IssueStatusSubmitted),
	}
	assert.Equal(t, map[string]int{"power": 2, "water": 1}, ByDepartment(issues))
}

func TestBuild_TotalMatchesStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	for i := 1; i <= 8; i++ {
		require.NoError(t, s.RecordIssue(ctx, issue(i, "transport", models.IssueStatusSubmitted)))

		summary, err := Build(ctx, s, DefaultPreview)
		require.NoError(t, err)
		assert.Equal(t, s.Len(), summary.Stats.Total)
		assert.Equal(t, i, summary.Stats.Submitted)
		assert.Len(t, summary.Recent, min(i, DefaultPreview))
		assert.Equal(t, fmt.Sprintf("JH%d", i), summary.Recent[0].ID)
	}
}
