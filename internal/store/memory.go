package store

import (
	"context"
	"slices"
	"sync"

	"github.com/joescharf/seva/internal/models"
)

// MemoryStore keeps issues in process memory for the lifetime of the session.
type MemoryStore struct {
	mu     sync.RWMutex
	issues []*models.Issue
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// RecordIssue prepends a copy of issue. No deduplication, no size cap.
func (s *MemoryStore) RecordIssue(_ context.Context, issue *models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = append([]*models.Issue{cloneIssue(issue)}, s.issues...)
	return nil
}

func (s *MemoryStore) GetIssue(_ context.Context, id string) (*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, issue := range s.issues {
		if issue.ID == id {
			return cloneIssue(issue), nil
		}
	}
	return nil, notFound(id)
}

func (s *MemoryStore) ListIssues(_ context.Context, filter IssueListFilter) ([]*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Issue
	for _, issue := range s.issues {
		if !filter.matches(issue) {
			continue
		}
		out = append(out, cloneIssue(issue))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// RecentIssues returns the first n issues. n <= 0 returns none.
func (s *MemoryStore) RecentIssues(_ context.Context, n int) ([]*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return nil, nil
	}
	n = min(n, len(s.issues))
	out := make([]*models.Issue, n)
	for i, issue := range s.issues[:n] {
		out[i] = cloneIssue(issue)
	}
	return out, nil
}

// Len returns the number of recorded issues.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues)
}

// Migrate is a no-op for the in-memory store.
func (s *MemoryStore) Migrate(context.Context) error { return nil }

// Close discards all issues.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = nil
	return nil
}

// cloneIssue copies issue and its image slice so callers never share the
// stored value. Image bytes are shared; nothing writes to them.
func cloneIssue(issue *models.Issue) *models.Issue {
	c := *issue
	c.Images = slices.Clone(issue.Images)
	return &c
}
