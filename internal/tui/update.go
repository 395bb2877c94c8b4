package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/session"
)

const statusTTL = 5 * time.Second

// Update handles all state updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case dashboardLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.summary = msg.summary
		return m, nil

	case statusClearedMsg:
		if msg.id == m.noteID {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.sess.Toggle()
			m.syncFocus()
			if m.sess.Mode == session.ModeDashboard {
				return m, m.loadDashboard
			}
			return m, nil
		}
		if m.sess.Mode == session.ModeReport {
			return m.handleReportInput(msg)
		}
		return m.handleDashboardInput(msg)
	}

	return m, nil
}

func (m Model) handleDashboardInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.loadDashboard
	case "n", "enter":
		_ = m.sess.SetMode(session.ModeReport)
		m.syncFocus()
	}
	return m, nil
}

func (m Model) handleReportInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		_ = m.sess.SetMode(session.ModeDashboard)
		m.syncFocus()
		return m, m.loadDashboard

	case "up", "shift+tab":
		m.focus = (m.focus + rowCount - 1) % rowCount
		m.syncFocus()
		return m, nil

	case "down":
		m.focus = (m.focus + 1) % rowCount
		m.syncFocus()
		return m, nil

	case "ctrl+u":
		m.cycleUrgency()
		return m, nil

	case "ctrl+x":
		if n := len(m.sess.Images()); n > 0 {
			if _, err := m.sess.RemoveImage(n - 1); err != nil {
				m.err = err
			}
		}
		return m, nil

	case "ctrl+s":
		return m.submit()

	case "enter":
		if m.focus == rowImage {
			return m.attachImage()
		}
		m.focus = (m.focus + 1) % rowCount
		m.syncFocus()
		return m, nil
	}

	if m.focus == rowDepartment {
		switch msg.String() {
		case "left", "h":
			m.shiftDepartment(-1)
		case "right", "l":
			m.shiftDepartment(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if field, ok := inputField[m.focus]; ok {
		_ = m.sess.SetField(field, m.inputs[m.focus].Value())
	}
	return m, cmd
}

// syncFocus focuses the text input under the cursor and blurs the rest.
func (m *Model) syncFocus() {
	for row := rowTitle; row < rowCount; row++ {
		if row == m.focus && m.sess.Mode == session.ModeReport {
			m.inputs[row].Focus()
		} else {
			m.inputs[row].Blur()
		}
	}
}

func (m *Model) shiftDepartment(delta int) {
	deps := catalog.List()
	i := (m.departmentIndex() + delta + len(deps)) % len(deps)
	_ = m.sess.SelectDepartment(deps[i].ID)
}

func (m *Model) cycleUrgency() {
	next := urgencyCycle[0]
	for i, u := range urgencyCycle {
		if u == m.sess.Draft.Urgency {
			next = urgencyCycle[(i+1)%len(urgencyCycle)]
			break
		}
	}
	_ = m.sess.SetField(form.FieldUrgency, next)
}

func (m Model) attachImage() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.inputs[rowImage].Value())
	if path == "" {
		return m, nil
	}
	candidate, err := intake.CandidateFromFile(path)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	_, rejected := m.sess.AddFiles(m.ctx, []intake.Candidate{candidate})
	m.inputs[rowImage].SetValue("")
	if len(rejected) > 0 {
		return m, m.setStatus(fmt.Sprintf("Not an image: %s", strings.Join(intake.RejectedNames(rejected), ", ")))
	}
	return m, m.setStatus(fmt.Sprintf("Attached %s (%d image(s))", candidate.Name, len(m.sess.Images())))
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	_, note, err := m.sess.Submit(m.ctx)
	if err != nil {
		if errors.Is(err, form.ErrIncomplete) {
			return m, m.setStatus("Please fill in: " + strings.Join(m.sess.Draft.Missing(), ", "))
		}
		m.err = err
		return m, nil
	}

	m.err = nil
	for row := rowTitle; row < rowCount; row++ {
		m.inputs[row].SetValue("")
	}
	m.focus = rowDepartment
	m.syncFocus()

	return m, tea.Batch(m.setStatus(note.Title+" "+note.Message), m.loadDashboard)
}

// setStatus shows text in the status bar and schedules it to clear.
func (m *Model) setStatus(text string) tea.Cmd {
	m.noteID++
	m.status = text
	id := m.noteID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearedMsg{id: id}
	})
}
