package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweetexport/pkg/models"
)

func TestModelRecordRow(t *testing.T) {
	m := NewModel("golang -filter:retweets", "tweets.csv", 4)

	m.RecordRow("1", "first", 1)
	m.RecordRow("2", "second\nline", 2)

	assert.Equal(t, 2, m.Written())
	assert.InDelta(t, 0.5, m.Percent(), 0.0001)
	require.Len(t, m.recent, 2)
	assert.Equal(t, "second line", m.recent[1].Preview)
}

func TestModelKeepsLastRows(t *testing.T) {
	m := NewModel("q", "out.csv", 100)
	for i := 1; i <= maxRecentPosts+3; i++ {
		m.RecordRow(strings.Repeat("x", i), "text", i)
	}

	require.Len(t, m.recent, maxRecentPosts)
	assert.Equal(t, strings.Repeat("x", 4), m.recent[0].ID)
}

func TestModelPercent(t *testing.T) {
	m := NewModel("q", "out.csv", 0)
	assert.Equal(t, 1.0, m.Percent())

	m = NewModel("q", "out.csv", 2)
	m.RecordRow("1", "a", 3)
	assert.Equal(t, 1.0, m.Percent())
}

func TestModelUpdate(t *testing.T) {
	m := NewModel("q", "out.csv", 3)
	m.linger = 0

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 60, m.progress.Width)

	m.Update(RowMsg{ID: "42", Text: "hello", Written: 1})
	assert.Equal(t, 1, m.Written())

	m.Update(LogMsg{Level: LevelInfo, Message: "page 1"})
	require.Len(t, m.logMessages, 1)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.showHelp)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.logMessages)

	_, cmd = m.Update(DoneMsg{Written: 1, Err: errors.New("search page 2: rate limited")})
	assert.True(t, m.finished)
	assert.Error(t, m.err)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelLingersAfterDone(t *testing.T) {
	m := NewModel("q", "out.csv", 3)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	_, cmd := m.Update(DoneMsg{Written: 3})
	require.NotNil(t, cmd)
	assert.True(t, m.finished)
	assert.Contains(t, m.View(), "q to close")
	require.NotEmpty(t, m.logMessages)
	assert.Equal(t, LevelSuccess, m.logMessages[len(m.logMessages)-1].Level)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelView(t *testing.T) {
	m := NewModel("golang", "tweets.csv", 2)
	assert.Equal(t, "Initializing...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.View(), "Waiting for the first page")

	m.Update(RowMsg{ID: "1050118621198921728", Text: "hello world", Written: 1})
	m.Update(DoneMsg{Written: 1})

	view := m.View()
	assert.Contains(t, view, "1050118621198921728")
	assert.Contains(t, view, "hello world")
	assert.Contains(t, view, "1/2")
	assert.Contains(t, view, "tweets.csv")
	assert.Contains(t, view, "done")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", preview("abc", 3))
	assert.Equal(t, "ab…", preview("abcd", 3))
	assert.Equal(t, "a b", preview("a\tb", 5))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{-time.Second, "00:00"},
		{65 * time.Second, "01:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, formatDuration(test.d))
	}
}

func TestTUIRunReturnsJobResult(t *testing.T) {
	ui := NewTUI("q", "out.csv", 2, tea.WithInput(nil), tea.WithOutput(io.Discard))
	ui.SetLinger(0)

	n, err := ui.Run(context.Background(), func(ctx context.Context) (int, error) {
		ui.LogInfo("Authenticated as %s", "Test User")
		ui.LogWarning("page %d was short", 1)
		ui.Row(&models.Post{ID: "1", Text: "a"}, 1)
		ui.Row(&models.Post{ID: "2", Text: "b"}, 2)
		return 2, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, ui.model.Written())
	assert.True(t, ui.model.finished)

	require.Len(t, ui.model.logMessages, 3)
	assert.Equal(t, LogMessage{Level: LevelInfo, Message: "Authenticated as Test User"}, withoutTime(ui.model.logMessages[0]))
	assert.Equal(t, LogMessage{Level: LevelWarn, Message: "page 1 was short"}, withoutTime(ui.model.logMessages[1]))
	assert.Equal(t, LevelSuccess, ui.model.logMessages[2].Level)
}

func TestTUIRunPropagatesJobError(t *testing.T) {
	ui := NewTUI("q", "out.csv", 5, tea.WithInput(nil), tea.WithOutput(io.Discard))
	ui.SetLinger(0)
	boom := errors.New("append failed after 1 rows: disk full")

	n, err := ui.Run(context.Background(), func(ctx context.Context) (int, error) {
		ui.Row(&models.Post{ID: "1", Text: "a"}, 1)
		return 1, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
}

func withoutTime(l LogMessage) LogMessage {
	l.Time = time.Time{}
	return l
}
