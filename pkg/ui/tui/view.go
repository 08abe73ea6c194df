package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the export dashboard
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderStatsPanel(),
		m.renderRecentPanel(),
		m.renderLogsPanel(),
	}

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("q quit • ? help"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	status := m.spinner.View() + " exporting"
	switch {
	case m.finished && m.err != nil:
		status = errorStyle.Render("✗ failed") + dimStyle.Render(" (q to close)")
	case m.finished:
		status = successStyle.Render("✓ done") + dimStyle.Render(" (q to close)")
	}
	return headerStyle.Render("TWEETEXPORT") + " " + status
}

func (m *Model) renderStatsPanel() string {
	title := titleStyle.Render(" EXPORT ")

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Query:  "), statsValueStyle.Render(m.query)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Output: "), statsValueStyle.Render(m.output)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Rows:   "), statsValueStyle.Render(fmt.Sprintf("%d/%d", m.written, m.max))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(formatDuration(time.Since(m.startTime)))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Rate:   "), statsValueStyle.Render(fmt.Sprintf("%.1f/min", m.Rate()))),
		m.progress.ViewAs(m.Percent()),
	}

	return m.panel(title, lipgloss.JoinVertical(lipgloss.Left, stats...))
}

func (m *Model) renderRecentPanel() string {
	title := titleStyle.Render(" LAST ROWS ")

	if len(m.recent) == 0 {
		return m.panel(title, dimStyle.Render("Waiting for the first page..."))
	}

	rows := make([]string, 0, len(m.recent))
	for i := len(m.recent) - 1; i >= 0; i-- {
		p := m.recent[i]
		rows = append(rows, fmt.Sprintf("%s %s", postIDStyle.Render(p.ID), dimStyle.Render(p.Preview)))
	}
	return m.panel(title, strings.Join(rows, "\n"))
}

func (m *Model) renderLogsPanel() string {
	title := titleStyle.Render(" LOGS ")

	start := len(m.logMessages) - 5
	if start < 0 {
		start = 0
	}

	var logs []string
	for _, l := range m.logMessages[start:] {
		timestamp := logTimestampStyle.Render(l.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(levelColor(l.Level)).Bold(true).Render(fmt.Sprintf("[%-7s]", l.Level))
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, l.Message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = dimStyle.Render("No logs yet...")
	}
	return m.panel(title, content)
}

func (m *Model) renderHelp() string {
	help := `  q/Q/ctrl+c - Stop the export and quit
  ctrl+l     - Clear logs
  ?          - Toggle this help

  Rows already written stay in the output file when the export is stopped.`
	return m.panel(titleStyle.Render(" HELP "), help)
}

func (m *Model) panel(title, content string) string {
	return panelStyle.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// formatDuration formats a duration as mm:ss or hh:mm:ss
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
