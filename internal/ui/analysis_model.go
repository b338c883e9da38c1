package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calum-mcyoko/Analysis-Plugin/internal/analysis"
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// AnalysisModel is the Bubbletea model for the analysis progress view
type AnalysisModel struct {
	// File being analysed
	FileName string
	FilePath string

	// Progress tracking
	Stage     analysis.Stage
	Fraction  float64 // completion of the current stage, 0.0 to 1.0
	Started   bool
	StartTime time.Time

	// Spinner state
	spinnerIndex int

	// Completion state
	Result *analysis.Result
	Error  error
	Done   bool

	// Terminal dimensions
	Width  int
	Height int
}

// NewAnalysisModel creates a new analysis UI model
func NewAnalysisModel() AnalysisModel {
	return AnalysisModel{
		StartTime: time.Now(),
	}
}

// Init initializes the model
func (m AnalysisModel) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// tickMsg is sent periodically to update the spinner and elapsed time
type tickMsg time.Time

// Update handles messages and updates the model
func (m AnalysisModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case AnalysisStartMsg:
		m.FileName = filepath.Base(msg.FilePath)
		m.FilePath = msg.FilePath
		m.StartTime = time.Now()
		return m, nil

	case StageMsg:
		m.Stage = msg.Stage
		m.Fraction = msg.Fraction
		m.Started = true
		return m, nil

	case AnalysisCompleteMsg:
		m.Result = msg.Result
		m.Error = msg.Error
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// overallProgress folds the current stage and its completion into a
// single value across the whole pipeline.
func (m AnalysisModel) overallProgress() float64 {
	if !m.Started {
		return 0
	}
	progress := (float64(m.Stage) + m.Fraction) / float64(analysis.NumStages)
	if progress > 1 {
		progress = 1
	}
	return progress
}

// View renders the UI
func (m AnalysisModel) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	var b strings.Builder

	// Header
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#D75F00")).
		Render("PresetAnalyzer")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render("Deriving an EQ preset")

	b.WriteString(title + " " + subtitle)
	b.WriteString("\n\n")

	if m.FileName == "" {
		b.WriteString("Waiting...")
		return b.String()
	}

	fileStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true)

	b.WriteString("Analysing: ")
	b.WriteString(fileStyle.Render(m.FileName))
	b.WriteString("\n\n")

	elapsed := time.Since(m.StartTime)
	spinnerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F00"))
	spinner := spinnerStyle.Render(spinnerFrames[m.spinnerIndex])

	switch {
	case m.Done && m.Error != nil:
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
		b.WriteString(errorStyle.Render("✗ Analysis failed"))

	case m.Done:
		doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))
		b.WriteString(doneStyle.Render("✓ Analysis complete"))
		b.WriteString(fmt.Sprintf(" [%s]", formatElapsed(elapsed)))

	case m.Started:
		b.WriteString(spinner)
		b.WriteString(fmt.Sprintf(" Stage %d/%d: %s\n\n", int(m.Stage)+1, analysis.NumStages, m.Stage))
		b.WriteString(renderAnalysisProgressBar(m.overallProgress(), 40, elapsed))

	default:
		b.WriteString(spinner)
		b.WriteString(" Loading audio...")
		b.WriteString(fmt.Sprintf(" [%s]", formatElapsed(elapsed)))
	}

	b.WriteString("\n")

	return b.String()
}

// renderAnalysisProgressBar renders a progress bar with percentage and elapsed time
func renderAnalysisProgressBar(progress float64, width int, elapsed time.Duration) string {
	filled := int(progress * float64(width))
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F00"))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))

	bar := filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("━", empty))

	percentage := int(progress * 100)

	return fmt.Sprintf("%s %3d%% [%s]", bar, percentage, formatElapsed(elapsed))
}

// formatElapsed formats a duration as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
