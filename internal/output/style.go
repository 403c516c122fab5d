package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

var (
	headerStyle   lipgloss.Style
	dimStyle      lipgloss.Style
	boldStyle     lipgloss.Style
	warnStyle     lipgloss.Style
	approvalStyle lipgloss.Style
	statusStyles  map[string]lipgloss.Style
)

func init() {
	resetStyles()
}

// resetStyles builds the palette, or plain styles once color is disabled.
// Status colors match the TUI column headers.
func resetStyles() {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		headerStyle, dimStyle, boldStyle, warnStyle, approvalStyle = plain, plain, plain, plain, plain
		statusStyles = map[string]lipgloss.Style{}
		return
	}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boldStyle = lipgloss.NewStyle().Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	approvalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	statusStyles = map[string]lipgloss.Style{
		task.StatusNotStarted: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
}

// StatusStyle returns the style for a status, shared with the TUI.
func StatusStyle(status string) lipgloss.Style {
	if st, ok := statusStyles[status]; ok {
		return st
	}
	return lipgloss.NewStyle()
}
