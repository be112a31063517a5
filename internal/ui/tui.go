package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIRenderer provides rich terminal UI using bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *exportModel
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer.
// Returns an error if the output is not a terminal.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	model := newExportModel(cfg.SourceDir, cfg.OnInterrupt)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:   cfg,
		model: model,
		done:  make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()
	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.send(progressUpdateMsg(event))
}

// AddError implements Renderer.
func (r *TUIRenderer) AddError(event ErrorEvent) {
	r.send(errorMsg(event))
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.send(completeMsg(stats))
}

func (r *TUIRenderer) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.program != nil {
		r.program.Send(msg)
	}
}

// Stop implements Renderer. It waits for the final frame to be drawn.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	program := r.program
	r.mu.Unlock()

	if program == nil {
		return nil
	}

	select {
	case <-r.done:
		return nil
	case <-time.After(200 * time.Millisecond):
	}

	program.Quit()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		// TUI didn't respond to quit, proceed anyway
	}
	return nil
}

type progressUpdateMsg ProgressEvent
type errorMsg ErrorEvent
type completeMsg CompletionStats

// exportModel is the bubbletea model for export progress.
type exportModel struct {
	sourceDir   string
	onInterrupt func()

	stage    Stage
	current  int
	total    int
	item     string
	errors   int
	warnings int

	width       int
	quitting    bool
	complete    bool
	stats       CompletionStats
	spinner     spinner.Model
	progressBar progress.Model
	styles      Styles
}

func newExportModel(sourceDir string, onInterrupt func()) *exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	p := progress.New(
		progress.WithSolidFill(ColorAccent),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &exportModel{
		sourceDir:   sourceDir,
		onInterrupt: onInterrupt,
		stage:       StageScanning,
		width:       80,
		spinner:     s,
		progressBar: p,
		styles:      DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m *exportModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.onInterrupt != nil {
				m.onInterrupt()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(msg.Width-20, 20)

	case progressUpdateMsg:
		if msg.Stage != m.stage {
			m.stage = msg.Stage
		}
		m.current, m.total = msg.Current, msg.Total
		if msg.Item != "" {
			m.item = msg.Item
		} else if msg.Message != "" {
			m.item = msg.Message
		}

	case errorMsg:
		if msg.IsWarn {
			m.warnings++
		} else {
			m.errors++
		}

	case completeMsg:
		m.complete = true
		m.stage = StageComplete
		m.stats = CompletionStats(msg)
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *exportModel) View() string {
	if m.quitting {
		return "Cancelled.\n"
	}
	if m.complete {
		return m.renderComplete()
	}

	title := "wnexport"
	if m.sourceDir != "" {
		title = "wnexport • " + m.sourceDir
	}

	sections := []string{
		m.styles.Header.Render(title),
		m.renderStages(),
		m.renderProgress(),
	}
	if m.item != "" {
		sections = append(sections, m.styles.Dim.Render(m.item))
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	return strings.Join(sections, "\n") + "\n"
}

// renderStages renders the pipeline stage indicators.
func (m *exportModel) renderStages() string {
	stages := []struct {
		stage Stage
		name  string
	}{
		{StageScanning, "Scan"},
		{StageParsing, "Parse"},
		{StageExporting, "Export"},
	}

	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		switch {
		case s.stage < m.stage:
			parts = append(parts, m.styles.Success.Render("● "+s.name))
		case s.stage == m.stage:
			parts = append(parts, m.styles.Active.Render(m.spinner.View()+" "+s.name))
		default:
			parts = append(parts, m.styles.Pending.Render("○ "+s.name))
		}
	}
	return strings.Join(parts, m.styles.Dim.Render(" → "))
}

func (m *exportModel) renderProgress() string {
	if m.total == 0 {
		return fmt.Sprintf("%s %s...", m.spinner.View(), m.stage)
	}

	percent := float64(m.current) / float64(m.total)
	bar := m.progressBar.ViewAs(percent)
	pct := m.styles.Active.Render(fmt.Sprintf("%3.0f%%", percent*100))
	count := m.styles.Label.Render(fmt.Sprintf("%d / %d %s", m.current, m.total, m.unit()))
	return fmt.Sprintf("%s  %s\n%s", bar, pct, count)
}

func (m *exportModel) unit() string {
	if m.stage == StageParsing {
		return "pairs"
	}
	return "steps"
}

func (m *exportModel) renderStatus() string {
	var parts []string
	if m.warnings > 0 {
		parts = append(parts, m.styles.Warning.Render(fmt.Sprintf("⚠ %d warnings", m.warnings)))
	}
	if m.errors > 0 {
		parts = append(parts, m.styles.Error.Render(fmt.Sprintf("✗ %d errors", m.errors)))
	}
	return strings.Join(parts, m.styles.Dim.Render("  │  "))
}

// renderComplete renders the completion summary.
func (m *exportModel) renderComplete() string {
	lines := []string{
		m.styles.Success.Render("✓ Export Complete"),
		"",
		m.row("Mode:", m.stats.Mode),
		m.row("Output:", m.stats.Location),
		m.row("Words:", fmt.Sprintf("%d", m.stats.Words)),
		m.row("Definitions:", fmt.Sprintf("%d", m.stats.Definitions)),
		m.row("Duration:", formatDuration(m.stats.Duration)),
	}
	if m.stats.Warnings > 0 {
		lines = append(lines, "", m.styles.Warning.Render(fmt.Sprintf("⚠ %d warnings", m.stats.Warnings)))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 2).
		Width(max(m.width-4, 40))
	return panel.Render(strings.Join(lines, "\n")) + "\n"
}

func (m *exportModel) row(label, value string) string {
	return fmt.Sprintf("%s %s", m.styles.Label.Render(fmt.Sprintf("%-12s", label)), m.styles.Active.Render(value))
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(100 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

var _ Renderer = (*TUIRenderer)(nil)
