package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/joescharf/seva/internal/models"
)

// ErrNotFound is returned when an issue id is not in the store.
var ErrNotFound = errors.New("issue not found")

// IssueListFilter specifies filters for listing issues.
type IssueListFilter struct {
	Department string
	Status     models.IssueStatus
	Urgency    models.IssueUrgency
	Limit      int
}

func (f IssueListFilter) matches(issue *models.Issue) bool {
	if f.Department != "" && issue.Department != f.Department {
		return false
	}
	if f.Status != "" && issue.Status != f.Status {
		return false
	}
	if f.Urgency != "" && issue.Urgency != f.Urgency {
		return false
	}
	return true
}

// Store holds submitted issues, newest first.
type Store interface {
	RecordIssue(ctx context.Context, issue *models.Issue) error
	GetIssue(ctx context.Context, id string) (*models.Issue, error)
	ListIssues(ctx context.Context, filter IssueListFilter) ([]*models.Issue, error)
	RecentIssues(ctx context.Context, n int) ([]*models.Issue, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store for driver ("memory" or "sqlite"), migrated and ready.
func Open(ctx context.Context, driver, dbPath string) (Store, error) {
	var s Store
	switch driver {
	case "", "memory":
		s = NewMemoryStore()
	case "sqlite":
		sq, err := NewSQLiteStore(dbPath)
		if err != nil {
			return nil, err
		}
		s = sq
	default:
		return nil, fmt.Errorf("unknown store driver: %s (use: memory, sqlite)", driver)
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return s, nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
