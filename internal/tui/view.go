package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/session"
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	if m.sess.Mode == session.ModeReport {
		body = m.renderReport()
	} else {
		body = m.renderDashboard()
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}
	panel := panelStyle.Width(width).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), panel, m.renderHelpBar())
}

func (m Model) renderTabs() string {
	dash, report := tabStyle, tabStyle
	if m.sess.Mode == session.ModeReport {
		report = activeTabStyle
	} else {
		dash = activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("Seva"),
		dash.Render("Dashboard"),
		report.Render("Report Issue"),
	)
}

func (m Model) renderDashboard() string {
	if m.summary == nil {
		return mutedStyle.Render("Loading dashboard...")
	}

	stats := m.summary.Stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Total Issues", stats.Total),
		renderCard("Submitted", stats.Submitted),
		renderCard("In Progress", stats.InProgress),
		renderCard("Completed", stats.Completed),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Recent Issues"))
	b.WriteString("\n")

	if len(m.summary.Recent) == 0 {
		b.WriteString(mutedStyle.Render("  No issues reported yet. Press n to report one."))
		return b.String()
	}

	for _, issue := range m.summary.Recent {
		line := fmt.Sprintf("  %s  %-30s  %-22s  %s  %s",
			mutedStyle.Render(issue.ID),
			truncate(issue.Title, 30),
			truncate(catalog.Name(issue.Department), 22),
			urgencyStyleFor(string(issue.Urgency)).Render(string(issue.Urgency)),
			statusStyleFor(string(issue.Status)).Render(string(issue.Status)),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCard(label string, n int) string {
	return cardStyle.Render(cardValueStyle.Render(fmt.Sprintf("%d", n)) + "\n" + cardLabelStyle.Render(label))
}

func (m Model) renderReport() string {
	var b strings.Builder

	b.WriteString(m.label(rowDepartment, "Department"))
	for _, d := range catalog.List() {
		name := d.Name
		if d.ID == m.sess.Department {
			b.WriteString(selectedItemStyle.Render("[" + name + "]"))
		} else if m.focus == rowDepartment {
			b.WriteString(normalItemStyle.Render(" " + name + " "))
		}
	}
	b.WriteString("\n\n")

	rows := []struct {
		row   int
		label string
	}{
		{rowTitle, "Title *"},
		{rowDescription, "Description *"},
		{rowLocation, "Location *"},
		{rowPhone, "Phone"},
		{rowImage, "Add image"},
	}
	for _, r := range rows {
		b.WriteString(m.label(r.row, r.label))
		b.WriteString(m.inputs[r.row].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Urgency"))
	b.WriteString(urgencyStyleFor(m.sess.Draft.Urgency).Render(m.sess.Draft.Urgency))
	b.WriteString("\n")

	images := m.sess.Images()
	b.WriteString(labelStyle.Render("Images"))
	if len(images) == 0 {
		b.WriteString(mutedStyle.Render("none"))
	}
	for i, img := range images {
		if i > 0 {
			b.WriteString("\n" + strings.Repeat(" ", 14))
		}
		b.WriteString(fmt.Sprintf("%s %s", img.Name, mutedStyle.Render("("+img.DetectionLabel+")")))
	}
	b.WriteString("\n\n")

	if m.sess.CanSubmit() {
		b.WriteString(statusStyle.Render("Ready to submit (ctrl+s)"))
	} else {
		b.WriteString(mutedStyle.Render("Required: " + strings.Join(m.sess.Draft.Missing(), ", ")))
	}
	return b.String()
}

func (m Model) label(row int, text string) string {
	if m.focus == row {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) renderHelpBar() string {
	var lines []string
	if m.err != nil {
		lines = append(lines, errorStyle.Render(fmt.Sprintf(" Error: %s ", m.err.Error())))
	}
	if m.status != "" {
		lines = append(lines, helpStyle.Render(" "+statusStyle.Render(m.status)+" "))
	}

	var keys []string
	if m.sess.Mode == session.ModeReport {
		keys = []string{
			"↑/↓ field",
			"←/→ department",
			"ctrl+u urgency",
			"enter attach",
			"ctrl+x drop image",
			"ctrl+s submit",
			"esc/tab dashboard",
		}
	} else {
		keys = []string{
			"n report issue",
			"tab switch view",
			"r refresh",
			"q quit",
		}
	}
	lines = append(lines, helpStyle.Render(strings.Join(keys, " • ")))
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
