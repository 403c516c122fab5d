package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

const (
	defaultColWidth = 30
	maxColWidth     = 60
	cardChrome      = 4 // border (2) + padding (2)
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle   = cardStyle.BorderForeground(lipgloss.Color("226"))
	overdueCardStyle  = cardStyle.BorderForeground(lipgloss.Color("196"))
	statusBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	approvalBadge     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	marketStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	detailLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(14)
	detailDialogStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)
)

func (b *Board) viewBoard() string {
	if len(b.columns) == 0 {
		return "No statuses configured."
	}

	colWidth := b.columnWidth()
	rendered := make([]string, len(b.columns))
	for i := range b.columns {
		rendered[i] = b.renderColumn(i, &b.columns[i], colWidth)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	// Clamp from the bottom so headers stay visible on tiny terminals.
	if target := b.height - b.chromeHeight(); target > 0 {
		lines := strings.Split(boardView, "\n")
		if len(lines) > target {
			lines = lines[:target]
		}
		for len(lines) < target {
			lines = append(lines, "")
		}
		boardView = strings.Join(lines, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return defaultColWidth
	}
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderColumn(idx int, col *column, width int) string {
	const headerPad = 2
	headerText := truncate(fmt.Sprintf("%s (%d)", col.label, len(col.tasks)), width-headerPad)
	style := columnHeaderStyle
	if idx == b.activeCol {
		style = activeColumnHeaderStyle
	}
	parts := []string{style.Width(width).Render(headerText)}

	n := b.visibleCards(col, width)
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+n, len(col.tasks))

	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for row := start; row < end; row++ {
		active := idx == b.activeCol && row == b.activeRow
		parts = append(parts, b.renderCard(col.tasks[row], active, width))
	}
	if end < len(col.tasks) {
		parts = append(parts, dimStyle.Width(width).Render(fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	style := cardStyle
	switch {
	case active:
		style = activeCardStyle
	case board.IsOverdue(t, b.cfg, b.today()):
		style = overdueCardStyle
	}
	const border = 2
	return style.Width(width - border).Render(strings.Join(b.cardLines(t, width), "\n"))
}

func (b *Board) cardHeight(t *task.Task, width int) int {
	const borders = 2
	return len(b.cardLines(t, width)) + borders
}

// cardLines builds the card content: title, market and resource, schedule.
func (b *Board) cardLines(t *task.Task, width int) []string {
	inner := max(width-cardChrome, 1)

	title := "#" + strconv.Itoa(t.ID) + " " + t.Title
	badge := ""
	if t.NeedsApproval {
		badge = " " + approvalBadge.Render("!")
	}
	lines := []string{truncate(title, inner-lipgloss.Width(badge)) + badge}

	var meta []string
	if t.MarketRef != "" {
		meta = append(meta, t.MarketRef)
	}
	if t.AssignedResource != "" {
		meta = append(meta, "@"+t.AssignedResource)
	}
	if len(meta) > 0 {
		lines = append(lines, marketStyle.Render(truncate(strings.Join(meta, " "), inner)))
	}

	if sched := schedule(t); sched != "" {
		lines = append(lines, dimStyle.Render(truncate(sched, inner)))
	}
	return lines
}

func schedule(t *task.Task) string {
	var s string
	switch {
	case t.StartDate != "" && t.DueDate != "":
		s = t.StartDate + " → " + t.DueDate
	case t.DueDate != "":
		s = "due " + t.DueDate
	case t.StartDate != "":
		s = "from " + t.StartDate
	}
	if t.Duration != nil {
		if s != "" {
			s += " "
		}
		s += "(" + strconv.Itoa(*t.Duration) + "d)"
	}
	return s
}

func (b *Board) renderStatusBar() string {
	var help []string
	for _, k := range keys.shortHelp() {
		h := k.Help()
		help = append(help, h.Key+":"+h.Desc)
	}

	scope := b.cfg.Board.Name
	if b.market != "" {
		scope += " / " + b.market
	}
	if b.onlyApproval {
		scope += " [approvals]"
	}
	status := truncate(fmt.Sprintf(" %s | %d tasks | %s", scope, len(b.tasks), strings.Join(help, " ")), b.width)

	if b.err != nil {
		return errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)) + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func (b *Board) viewDetail(t *task.Task) string {
	row := func(label, value string) string {
		if value == "" {
			value = dimStyle.Render("--")
		}
		return detailLabelStyle.Render(label) + value
	}
	duration := ""
	if t.Duration != nil {
		duration = strconv.Itoa(*t.Duration) + " days"
	}
	approval := ""
	if t.NeedsApproval {
		approval = approvalBadge.Render("pending")
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Task #%d: %s", t.ID, t.Title)),
		"",
		row("Market", t.MarketRef),
		row("Status", output.StatusStyle(t.Status).Render(b.cfg.StatusLabel(t.Status))),
		row("Coordination", t.Coordination),
		row("Resource", t.AssignedResource),
		row("Start", t.StartDate),
		row("Due", t.DueDate),
		row("Duration", duration),
		row("Approval", approval),
		row("Modified by", t.LastModifiedBy),
	}
	for _, d := range t.Documents {
		lines = append(lines, row("Document", d.Name))
	}
	lines = append(lines, "", dimStyle.Render("esc: back"))

	return detailDialogStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, maxLen int) string {
	const ellipsis = "..."
	maxLen = max(maxLen, len(ellipsis)+1)
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-len(ellipsis), len(runes))
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-len(ellipsis) {
		target--
	}
	return string(runes[:target]) + ellipsis
}
