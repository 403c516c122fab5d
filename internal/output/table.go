package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

const (
	maxTitleW    = 40
	maxResourceW = 20
	dash         = "--"
)

// TaskTable renders a list of tasks as a formatted table. Tasks waiting for
// approval are flagged with "!".
func TaskTable(w io.Writer, tasks []*task.Task, cfg *config.Config) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, marketW, statusW, titleW, resW := 4, 8, 8, 7, 10
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		marketW = max(marketW, lipgloss.Width(t.MarketRef)+pad)
		statusW = max(statusW, lipgloss.Width(cfg.StatusLabel(t.Status))+pad)
		titleW = max(titleW, min(lipgloss.Width(t.Title), maxTitleW)+pad)
		resW = max(resW, min(lipgloss.Width(t.AssignedResource), maxResourceW)+pad)
	}
	const dateW = 12

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", marketW, "MARKET", statusW, "STATUS", titleW, "TITLE",
		resW, "RESOURCE", dateW, "START", dateW, "DUE", "DAYS")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		id := strconv.Itoa(t.ID)
		if t.NeedsApproval {
			id += approvalStyle.Render("!")
		}
		row := fmt.Sprintf("%s %s %s %s %s %s %s %s",
			padRight(id, idW),
			padRight(orDash(t.MarketRef), marketW),
			padRight(StatusStyle(t.Status).Render(cfg.StatusLabel(t.Status)), statusW),
			padRight(truncate(t.Title, maxTitleW), titleW),
			padRight(orDash(truncate(t.AssignedResource, maxResourceW)), resW),
			padRight(orDash(t.StartDate), dateW),
			padRight(orDash(t.DueDate), dateW),
			durationOrDash(t.Duration))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	title := s.BoardName
	if s.Market != "" {
		title += " / " + s.Market
	}
	fmt.Fprintln(w, boldStyle.Render(title))
	fmt.Fprintf(w, "Total: %d tasks, %d overdue, %d awaiting approval\n\n",
		s.TotalTasks, s.Overdue, s.PendingApproval)

	const statusColW = 16
	header := fmt.Sprintf("%-*s %6s %8s %9s", statusColW, "STATUS", "COUNT", "OVERDUE", "APPROVAL")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, ss := range s.Statuses {
		fmt.Fprintf(w, "%s %6d %8d %9d\n",
			padRight(StatusStyle(ss.Status).Render(ss.Label), statusColW),
			ss.Count, ss.Overdue, ss.PendingApproval)
	}
}

// GroupedTable renders a grouped board view with per-group status breakdowns.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	const groupStatusW = 16
	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, boldStyle.Render(fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)))
		for _, ss := range g.Statuses {
			if ss.Count == 0 {
				continue
			}
			line := fmt.Sprintf("  %s %d", padRight(StatusStyle(ss.Status).Render(ss.Label), groupStatusW), ss.Count)
			if ss.Overdue > 0 {
				line += warnStyle.Render(fmt.Sprintf(" (%d overdue)", ss.Overdue))
			}
			fmt.Fprintln(w, line)
		}
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// Issues prints inputs that were accepted but could not be used.
func Issues(w io.Writer, issues []string) {
	for _, s := range issues {
		fmt.Fprintln(w, warnStyle.Render("warning: ")+s)
	}
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most n runes, ending in "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return dimStyle.Render(dash)
	}
	return s
}

func durationOrDash(d *int) string {
	if d == nil {
		return dimStyle.Render(dash)
	}
	return strconv.Itoa(*d)
}
