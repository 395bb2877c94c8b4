package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joescharf/seva/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serializes access from concurrent HTTP and MCP requests.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", strings.ToLower(p), err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordIssue inserts issue and its images. Ordering is by insertion sequence,
// so the newest record is listed first.
func (s *SQLiteStore) RecordIssue(ctx context.Context, issue *models.Issue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record issue: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO issues (id, title, description, department, location, urgency, status, contact_phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.ID, issue.Title, issue.Description, issue.Department, issue.Location,
		string(issue.Urgency), string(issue.Status), issue.ContactPhone, issue.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record issue: %w", err)
	}

	for i, img := range issue.Images {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO issue_images (issue_id, position, name, content_type, size_bytes, data, detection_label)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			issue.ID, i, img.Name, img.ContentType, img.SizeBytes, img.Data, img.DetectionLabel,
		)
		if err != nil {
			return fmt.Errorf("record issue image %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record issue: %w", err)
	}
	return nil
}

const issueColumns = `id, title, description, department, location, urgency, status, contact_phone, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*models.Issue, error) {
	issue := &models.Issue{}
	var urgency, status string
	if err := row.Scan(&issue.ID, &issue.Title, &issue.Description, &issue.Department, &issue.Location,
		&urgency, &status, &issue.ContactPhone, &issue.CreatedAt); err != nil {
		return nil, err
	}
	issue.Urgency = models.IssueUrgency(urgency)
	issue.Status = models.IssueStatus(status)
	return issue, nil
}

func (s *SQLiteStore) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	issue, err := scanIssue(s.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}

	if err := s.loadImages(ctx, []*models.Issue{issue}); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *SQLiteStore) ListIssues(ctx context.Context, filter IssueListFilter) ([]*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues`
	var conditions []string
	var args []any

	if filter.Department != "" {
		conditions = append(conditions, "department = ?")
		args = append(args, filter.Department)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Urgency != "" {
		conditions = append(conditions, "urgency = ?")
		args = append(args, string(filter.Urgency))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY seq DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.queryIssues(ctx, query, args...)
}

// RecentIssues returns the first n issues. n <= 0 returns none.
func (s *SQLiteStore) RecentIssues(ctx context.Context, n int) ([]*models.Issue, error) {
	if n <= 0 {
		return nil, nil
	}
	return s.queryIssues(ctx, `SELECT `+issueColumns+` FROM issues ORDER BY seq DESC LIMIT ?`, n)
}

func (s *SQLiteStore) queryIssues(ctx context.Context, query string, args ...any) ([]*models.Issue, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []*models.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadImages(ctx, issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// imageBatchSize caps the issue ids per image query so each query stays well
// under SQLite's host-parameter limit.
var imageBatchSize = 500

// loadImages attaches images to each issue in position order.
func (s *SQLiteStore) loadImages(ctx context.Context, issues []*models.Issue) error {
	byID := make(map[string]*models.Issue, len(issues))
	for _, issue := range issues {
		byID[issue.ID] = issue
		issue.Images = []models.UploadedImage{}
	}

	for start := 0; start < len(issues); start += imageBatchSize {
		end := min(start+imageBatchSize, len(issues))
		if err := s.loadImageBatch(ctx, issues[start:end], byID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) loadImageBatch(ctx context.Context, batch []*models.Issue, byID map[string]*models.Issue) error {
	placeholders := make([]string, len(batch))
	args := make([]any, len(batch))
	for i, issue := range batch {
		placeholders[i] = "?"
		args[i] = issue.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT issue_id, name, content_type, size_bytes, data, detection_label
		FROM issue_images WHERE issue_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY issue_id, position`, args...)
	if err != nil {
		return fmt.Errorf("load issue images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var issueID string
		var img models.UploadedImage
		if err := rows.Scan(&issueID, &img.Name, &img.ContentType, &img.SizeBytes, &img.Data, &img.DetectionLabel); err != nil {
			return fmt.Errorf("scan issue image: %w", err)
		}
		if issue, ok := byID[issueID]; ok {
			issue.Images = append(issue.Images, img)
		}
	}
	return rows.Err()
}
