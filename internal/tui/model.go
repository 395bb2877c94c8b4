// Package tui is the interactive terminal front end: a dashboard view and a
// report view over one session.Session.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/dashboard"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/session"
)

// Report form rows, top to bottom. Row 0 is the department picker; the rest
// are text inputs.
const (
	rowDepartment = iota
	rowTitle
	rowDescription
	rowLocation
	rowPhone
	rowImage
	rowCount
)

// inputField maps a text row to the draft field it edits. The image row has
// no draft field.
var inputField = map[int]string{
	rowTitle:       form.FieldTitle,
	rowDescription: form.FieldDescription,
	rowLocation:    form.FieldLocation,
	rowPhone:       form.FieldContactPhone,
}

var urgencyCycle = []string{"low", "medium", "high"}

// Model represents the TUI state
type Model struct {
	ctx  context.Context
	sess *session.Session

	summary *dashboard.Summary
	inputs  []textinput.Model // indexed by row; inputs[rowDepartment] is unused
	focus   int

	// UI state
	width  int
	height int
	ready  bool
	err    error
	status string
	noteID int
}

type dashboardLoadedMsg struct {
	summary *dashboard.Summary
	err     error
}

type statusClearedMsg struct{ id int }

// NewModel creates a TUI model over sess. ctx bounds store calls.
func NewModel(ctx context.Context, sess *session.Session) Model {
	placeholders := map[int]string{
		rowTitle:       "Brief title of the issue",
		rowDescription: "Describe the issue in detail",
		rowLocation:    "Enter address or landmark",
		rowPhone:       "+91 XXXXX XXXXX (optional)",
		rowImage:       "/path/to/photo.jpg, enter to attach",
	}

	inputs := make([]textinput.Model, rowCount)
	for row := rowTitle; row < rowCount; row++ {
		in := textinput.New()
		in.Placeholder = placeholders[row]
		in.CharLimit = 256
		in.Width = 50
		inputs[row] = in
	}

	return Model{
		ctx:    ctx,
		sess:   sess,
		inputs: inputs,
		focus:  rowDepartment,
	}
}

// Init loads the dashboard.
func (m Model) Init() tea.Cmd {
	return m.loadDashboard
}

func (m Model) loadDashboard() tea.Msg {
	summary, err := m.sess.Dashboard(m.ctx)
	return dashboardLoadedMsg{summary: summary, err: err}
}

// Mode returns the active view.
func (m Model) Mode() session.Mode {
	return m.sess.Mode
}

// Status returns the status bar text.
func (m Model) Status() string {
	return m.status
}

func (m Model) departmentIndex() int {
	for i, d := range catalog.List() {
		if d.ID == m.sess.Department {
			return i
		}
	}
	return 0
}
