package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel() *exportModel {
	m := newExportModel("/usr/share/wordnet", nil)
	m.styles = NoColorStyles()
	return m
}

func TestNewTUIRenderer_ReturnsErrorForNonTTY(t *testing.T) {
	// Given: a non-TTY buffer
	cfg := NewConfig(&bytes.Buffer{})

	// When: creating TUI renderer
	r, err := NewTUIRenderer(cfg)

	// Then: returns error (can't create TUI for non-TTY)
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestExportModel_InitialView(t *testing.T) {
	// Given: a new model
	m := newTestModel()

	// When: getting initial view
	view := m.View()

	// Then: header and all stage indicators are shown
	assert.Contains(t, view, "wnexport • /usr/share/wordnet")
	assert.Contains(t, view, "Scan")
	assert.Contains(t, view, "Parse")
	assert.Contains(t, view, "Export")
	assert.Contains(t, view, "Scanning...")
}

func TestExportModel_ProgressDisplay(t *testing.T) {
	// Given: a model receiving parse progress
	m := newTestModel()

	// When: two of four pairs are done
	_, _ = m.Update(progressUpdateMsg{Stage: StageParsing, Current: 2, Total: 4, Item: "index.noun"})
	view := m.View()

	// Then: counts, percentage and item are rendered
	assert.Contains(t, view, "2 / 4 pairs")
	assert.Contains(t, view, "50%")
	assert.Contains(t, view, "index.noun")
	assert.Contains(t, view, "● Scan")
	assert.Contains(t, view, "○ Export")
}

func TestExportModel_ErrorCounts(t *testing.T) {
	m := newTestModel()

	_, _ = m.Update(errorMsg{Err: errors.New("a"), IsWarn: true})
	_, _ = m.Update(errorMsg{Err: errors.New("b")})
	view := m.View()

	assert.Contains(t, view, "1 warnings")
	assert.Contains(t, view, "1 errors")
}

func TestExportModel_CompleteQuits(t *testing.T) {
	// Given: a running model
	m := newTestModel()

	// When: completion arrives
	_, cmd := m.Update(completeMsg{Mode: "database", Location: "/tmp/dictionary.sqlite3", Words: 3, Definitions: 5, Duration: 2 * time.Second})

	// Then: summary is rendered and the program is told to quit
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	view := m.View()
	assert.Contains(t, view, "Export Complete")
	assert.Contains(t, view, "/tmp/dictionary.sqlite3")
	assert.Contains(t, view, "2.0s")
}

func TestExportModel_CtrlCCallsInterrupt(t *testing.T) {
	// Given: a model with an interrupt hook
	interrupted := false
	m := newExportModel("", func() { interrupted = true })

	// When: the user presses ctrl+c
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	// Then: the hook runs and the view shows cancellation
	assert.True(t, interrupted)
	require.NotNil(t, cmd)
	assert.Equal(t, "Cancelled.\n", m.View())
}

func TestExportModel_WindowResize(t *testing.T) {
	m := newTestModel()

	_, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})

	assert.Equal(t, 30, m.width)
	assert.Equal(t, 20, m.progressBar.Width)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{2 * time.Minute, "2m"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}
