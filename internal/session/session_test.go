package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/store"
)

func newTestSession(t *testing.T) (*Session, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	a := &form.Assembler{IDs: form.NewULIDGenerator(), Now: func() time.Time {
		return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	}}
	return New(st, intake.New(intake.NewSeededClassifier(1)), a), st
}

func fillDraft(t *testing.T, s *Session, title string) {
	t.Helper()
	require.NoError(t, s.SetField(form.FieldTitle, title))
	require.NoError(t, s.SetField(form.FieldDescription, "Not working since Monday"))
	require.NoError(t, s.SetField(form.FieldLocation, "MG Road"))
}

func TestNew_Defaults(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, ModeDashboard, s.Mode)
	assert.Equal(t, catalog.DefaultDepartment, s.Department)
	assert.Equal(t, "medium", s.Draft.Urgency)
	assert.False(t, s.CanSubmit())
}

func TestSetMode(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.SetMode(ModeReport))
	assert.Equal(t, ModeReport, s.Mode)

	assert.Error(t, s.SetMode("settings"))
	assert.Equal(t, ModeReport, s.Mode)

	s.Toggle()
	assert.Equal(t, ModeDashboard, s.Mode)
	s.Toggle()
	assert.Equal(t, ModeReport, s.Mode)
}

func TestSwitchingViewsKeepsDraft(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.SetMode(ModeReport))
	fillDraft(t, s, "Half written")

	require.NoError(t, s.SetMode(ModeDashboard))
	require.NoError(t, s.SetMode(ModeReport))
	assert.Equal(t, "Half written", s.Draft.Title)
}

func TestSelectDepartment(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.SelectDepartment("power"))
	assert.Equal(t, "power", s.Department)

	err := s.SelectDepartment("parks")
	assert.ErrorIs(t, err, form.ErrUnknownDepartment)
	assert.Equal(t, "power", s.Department)
}

func TestSubmit_ExampleScenario(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.SetMode(ModeReport))
	require.NoError(t, s.SelectDepartment("power"))
	fillDraft(t, s, "Broken streetlight")
	require.NoError(t, s.SetField(form.FieldUrgency, "high"))

	issue, note, err := s.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.IssueStatusSubmitted, issue.Status)
	assert.Equal(t, models.IssueUrgencyHigh, issue.Urgency)
	assert.Len(t, issue.Images, 0)
	assert.Equal(t, "Issue Submitted Successfully!", note.Title)
	assert.Contains(t, note.Message, issue.ID)
	assert.Equal(t, issue.ID, note.IssueID)

	summary, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stats.Total)
	assert.Equal(t, 1, summary.Stats.Submitted)
	assert.Equal(t, 1, st.Len())
}

func TestSubmit_ResetsSession(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.SetMode(ModeReport))
	require.NoError(t, s.SelectDepartment("water"))
	fillDraft(t, s, "Pipeline leak")
	accepted, rejected := s.AddFiles(ctx, []intake.Candidate{
		{Name: "leak.jpg", ContentType: "image/jpeg"},
		{Name: "leak.png", ContentType: "image/png"},
		{Name: "readme.txt", ContentType: "text/plain"},
	})
	assert.Len(t, accepted, 2)
	assert.Len(t, rejected, 1)

	issue, _, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Len(t, issue.Images, 2)
	assert.Equal(t, "water", issue.Department)

	assert.Equal(t, ModeDashboard, s.Mode)
	assert.Equal(t, catalog.DefaultDepartment, s.Department)
	assert.Empty(t, s.Images())
	assert.Equal(t, form.NewDraft(), s.Draft)
}

func TestSubmit_RejectionLeavesStateUntouched(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.SetMode(ModeReport))
	require.NoError(t, s.SelectDepartment("health"))
	require.NoError(t, s.SetField(form.FieldTitle, "Only a title"))
	s.AddFiles(ctx, []intake.Candidate{{Name: "a.png", ContentType: "image/png"}})

	issue, note, err := s.Submit(ctx)
	assert.ErrorIs(t, err, form.ErrIncomplete)
	assert.Nil(t, issue)
	assert.Nil(t, note)

	assert.Equal(t, ModeReport, s.Mode)
	assert.Equal(t, "health", s.Department)
	assert.Len(t, s.Images(), 1)
	assert.Equal(t, "Only a title", s.Draft.Title)
	assert.Equal(t, 0, st.Len())
}

func TestRemoveImage(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	s.AddFiles(ctx, []intake.Candidate{
		{Name: "a.png", ContentType: "image/png"},
		{Name: "b.png", ContentType: "image/png"},
	})

	remaining, err := s.RemoveImage(0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b.png", remaining[0].Name)

	_, err = s.RemoveImage(5)
	assert.ErrorIs(t, err, intake.ErrIndexOutOfRange)
}

func TestRecentIssuesReverseChronological(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	titles := []string{"one", "two", "three", "four", "five", "six", "seven"}
	for _, title := range titles {
		fillDraft(t, s, title)
		_, _, err := s.Submit(ctx)
		require.NoError(t, err)
	}

	recent, err := st.RecentIssues(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "seven", recent[0].Title)
	assert.Equal(t, "six", recent[1].Title)
	assert.Equal(t, "five", recent[2].Title)

	summary, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Recent, 5)
	assert.Equal(t, len(titles), summary.Stats.Total)
}
