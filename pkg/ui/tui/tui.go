package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tweetexport/pkg/models"
)

// TUI is a full screen view of a running export
type TUI struct {
	program *tea.Program
	model   *Model
}

// Job is the export work shown by the TUI. It returns the rows written.
type Job func(ctx context.Context) (int, error)

// NewTUI creates a TUI for an export of query into output. Without options
// the program takes over the terminal with the alternate screen.
func NewTUI(query, output string, max int, opts ...tea.ProgramOption) *TUI {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	model := NewModel(query, output, max)
	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

type jobResult struct {
	written int
	err     error
}

// Run runs job in the background while the TUI renders its progress, and
// returns job's result. Quitting the TUI cancels the context handed to job.
func (t *TUI) Run(ctx context.Context, job Job) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan jobResult, 1)
	go func() {
		n, err := job(ctx)
		done <- jobResult{written: n, err: err}
		t.program.Send(DoneMsg{Written: n, Err: err})
	}()

	_, runErr := t.program.Run()
	cancel()

	res := <-done
	if res.err == nil && runErr != nil {
		return res.written, fmt.Errorf("terminal UI failed: %w", runErr)
	}
	return res.written, res.err
}

// SetLinger sets how long the dashboard stays open after the export
// returns. Zero closes it at once. Call it before Run.
func (t *TUI) SetLinger(d time.Duration) {
	t.model.linger = d
}

// Row reports an appended row
func (t *TUI) Row(post *models.Post, written int) {
	t.program.Send(RowMsg{ID: post.ID, Text: post.Text, Written: written})
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.program.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log(LevelInfo, format, args...)
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log(LevelWarn, format, args...)
}
