// Package session owns the state of one report-composition session: the
// selected view, department, image working set and form draft.
package session

import (
	"context"
	"fmt"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/dashboard"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/store"
)

// Mode is the active presentation.
type Mode string

const (
	ModeDashboard Mode = "dashboard"
	ModeReport    Mode = "report"
)

// Notification is the transient confirmation shown after a submission.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	IssueID string `json:"issue_id"`
}

// Session is not safe for concurrent use; one session serves one user's
// sequence of events.
type Session struct {
	Mode       Mode
	Department string
	Draft      form.Draft

	intake    *intake.Intake
	store     store.Store
	assembler *form.Assembler
	preview   int
}

// Option configures a Session.
type Option func(*Session)

// WithPreview sets the number of recent issues included in Dashboard.
func WithPreview(n int) Option {
	return func(s *Session) { s.preview = n }
}

// New starts a session on the dashboard with default selections.
func New(st store.Store, in *intake.Intake, a *form.Assembler, opts ...Option) *Session {
	if in == nil {
		in = intake.New(nil)
	}
	if a == nil {
		a = form.NewAssembler()
	}
	s := &Session{
		Mode:       ModeDashboard,
		Department: catalog.DefaultDepartment,
		Draft:      form.NewDraft(),
		intake:     in,
		store:      st,
		assembler:  a,
		preview:    dashboard.DefaultPreview,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetMode switches views. The draft is kept; nothing asks for confirmation.
func (s *Session) SetMode(m Mode) error {
	switch m {
	case ModeDashboard, ModeReport:
		s.Mode = m
		return nil
	}
	return fmt.Errorf("unknown mode: %s", m)
}

// Toggle flips between dashboard and report.
func (s *Session) Toggle() {
	if s.Mode == ModeDashboard {
		s.Mode = ModeReport
		return
	}
	s.Mode = ModeDashboard
}

// SelectDepartment changes the department the report is routed to.
func (s *Session) SelectDepartment(id string) error {
	if !catalog.Valid(id) {
		return fmt.Errorf("%w: %q", form.ErrUnknownDepartment, id)
	}
	s.Department = id
	return nil
}

// SetField assigns a draft field.
func (s *Session) SetField(field, value string) error {
	return s.Draft.Set(field, value)
}

// AddFiles offers candidates to the image working set.
func (s *Session) AddFiles(ctx context.Context, candidates []intake.Candidate) ([]models.UploadedImage, []intake.Candidate) {
	return s.intake.Accept(ctx, candidates)
}

// RemoveImage drops the image at index.
func (s *Session) RemoveImage(index int) ([]models.UploadedImage, error) {
	return s.intake.Remove(index)
}

// Images returns the current image working set.
func (s *Session) Images() []models.UploadedImage {
	return s.intake.Images()
}

// CanSubmit reports whether the draft has every required field.
func (s *Session) CanSubmit() bool {
	return s.Draft.Ready()
}

// Submit assembles the issue, records it and resets the session back to the
// dashboard. On error nothing is changed.
func (s *Session) Submit(ctx context.Context) (*models.Issue, *Notification, error) {
	issue, err := s.assembler.Submit(s.Draft, s.Department, s.intake.Images())
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.RecordIssue(ctx, issue); err != nil {
		return nil, nil, fmt.Errorf("record issue: %w", err)
	}

	s.intake.Reset()
	s.Department = catalog.DefaultDepartment
	s.Draft = form.NewDraft()
	s.Mode = ModeDashboard

	return issue, &Notification{
		Title:   "Issue Submitted Successfully!",
		Message: fmt.Sprintf("Your issue has been registered with ID: %s", issue.ID),
		IssueID: issue.ID,
	}, nil
}

// Dashboard returns freshly computed dashboard data.
func (s *Session) Dashboard(ctx context.Context) (*dashboard.Summary, error) {
	return dashboard.Build(ctx, s.store, s.preview)
}
