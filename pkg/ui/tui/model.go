package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Log levels shown in the logs panel
const (
	LevelInfo    = "INFO"
	LevelSuccess = "SUCCESS"
	LevelWarn    = "WARN"
	LevelError   = "ERROR"
)

const (
	maxRecentPosts = 8
	maxLogMessages = 50

	// DefaultLinger is how long the finished dashboard stays on screen
	DefaultLinger = 3 * time.Second
)

// ExportedPost is a row that has already been appended to the output file
type ExportedPost struct {
	ID      string
	Preview string
	Time    time.Time
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
}

// Model is the bubbletea model of a running export. It is only touched from
// the program goroutine; the export reports to it through messages.
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	query  string
	output string
	max    int

	written   int
	recent    []ExportedPost
	startTime time.Time

	finished bool
	err      error
	linger   time.Duration

	width       int
	height      int
	showHelp    bool
	logMessages []LogMessage
}

// NewModel creates a model for an export of at most max posts
func NewModel(query, output string, max int) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return &Model{
		spinner:   s,
		progress:  p,
		query:     query,
		output:    output,
		max:       max,
		startTime: time.Now(),
		linger:    DefaultLinger,
	}
}

// Init starts the spinner and the refresh ticker
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// RecordRow notes an appended row
func (m *Model) RecordRow(id, text string, written int) {
	m.written = written
	m.recent = append(m.recent, ExportedPost{ID: id, Preview: preview(text, 60), Time: time.Now()})
	if len(m.recent) > maxRecentPosts {
		m.recent = m.recent[len(m.recent)-maxRecentPosts:]
	}
}

// Finish marks the export as done. err is nil on success.
func (m *Model) Finish(written int, err error) {
	m.finished = true
	m.written = written
	m.err = err
	if err != nil {
		m.AddLogMessage(LevelError, err.Error())
		return
	}
	m.AddLogMessage(LevelSuccess, "Export finished")
}

// AddLogMessage appends a line to the logs panel
func (m *Model) AddLogMessage(level, message string) {
	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
	})
	if len(m.logMessages) > maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-maxLogMessages:]
	}
}

// Percent returns the share of max already written, between 0 and 1
func (m *Model) Percent() float64 {
	if m.max <= 0 {
		return 1
	}
	p := float64(m.written) / float64(m.max)
	if p > 1 {
		p = 1
	}
	return p
}

// Rate returns the average export rate in posts per minute
func (m *Model) Rate() float64 {
	elapsed := time.Since(m.startTime).Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(m.written) / elapsed
}

// Written returns the number of rows reported so far
func (m *Model) Written() int {
	return m.written
}

// preview flattens text to one line and cuts it to n runes
func preview(text string, n int) string {
	runes := []rune(text)
	out := make([]rune, 0, n)
	for _, r := range runes {
		if len(out) == n {
			out[n-1] = '…'
			break
		}
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
