package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// StatusTracker keeps track of export progress against the requested number of posts
type StatusTracker struct {
	Exported  int
	Max       int
	StartTime time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker(max int) *StatusTracker {
	return &StatusTracker{
		Max:       max,
		StartTime: time.Now(),
	}
}

// SetExported records the number of rows written so far
func (st *StatusTracker) SetExported(n int) {
	st.Exported = n
}

// GetProgress returns a formatted progress bar
func (st *StatusTracker) GetProgress() string {
	filled := 0
	if st.Max > 0 {
		filled = st.Exported * barWidth / st.Max
	}
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, barWidth-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.Exported, st.Max)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetExportRate returns the average rate in posts per minute
func (st *StatusTracker) GetExportRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Exported) / elapsed
}

// PrintProgress redraws the progress line
func (st *StatusTracker) PrintProgress() {
	fmt.Fprintf(stdout(), "\r%s %s", Green("[EXPORTED]"), st.GetProgress())
}

// Finish ends the progress line and prints a summary
func (st *StatusTracker) Finish(path string) {
	w := stdout()
	if st.Exported > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s %d posts appended to %s in %s (%.1f posts/min)\n",
		Magenta("[DONE]"),
		st.Exported,
		Yellow(path),
		st.GetElapsedTime().Round(time.Millisecond),
		st.GetExportRate())
}
