package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))

	ts := "  created:" + t.Created.Format("2006-01-02") +
		" updated:" + t.Updated.Format("2006-01-02")
	if t.Started != nil {
		ts += " started:" + t.Started.Format("2006-01-02")
	}
	if t.Completed != nil {
		ts += " completed:" + t.Completed.Format("2006-01-02")
	}
	if t.LastModifiedBy != "" {
		ts += " by:" + t.LastModifiedBy
	}
	fmt.Fprintln(w, ts)

	for _, d := range t.Documents {
		fmt.Fprintf(w, "  doc:%s %d %s\n", d.Name, d.Size, d.URL)
	}
	if t.Body != "" {
		for _, line := range strings.Split(strings.TrimRight(t.Body, "\n"), "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.BoardName, s.TotalTasks)
	for _, ss := range s.Statuses {
		line := "  " + ss.Status + ": " + strconv.Itoa(ss.Count)
		var notes []string
		if ss.Overdue > 0 {
			notes = append(notes, strconv.Itoa(ss.Overdue)+" overdue")
		}
		if ss.PendingApproval > 0 {
			notes = append(notes, strconv.Itoa(ss.PendingApproval)+" awaiting approval")
		}
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + t.Status + "] " + t.Title
	if t.MarketRef != "" {
		line += " market:" + t.MarketRef
	}
	if t.AssignedResource != "" {
		line += " @" + t.AssignedResource
	}
	if t.StartDate != "" {
		line += " start:" + t.StartDate
	}
	if t.DueDate != "" {
		line += " due:" + t.DueDate
	}
	if t.Duration != nil {
		line += " days:" + strconv.Itoa(*t.Duration)
	}
	if t.NeedsApproval {
		line += " approval:pending"
	}
	return line
}
