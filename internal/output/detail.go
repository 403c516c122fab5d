package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

const (
	timeLayout = "2006-01-02 15:04"
	notesWidth = 80
)

// TaskDetail renders a single task with full detail. Notes are rendered as
// markdown when color is enabled.
func TaskDetail(w io.Writer, t *task.Task, cfg *config.Config, today date.Date) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, boldStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(titleLine))))

	printField(w, "Market", orDash(t.MarketRef))
	printField(w, "Status", StatusStyle(t.Status).Render(cfg.StatusLabel(t.Status)))
	printField(w, "Coordination", orDash(t.Coordination))
	printField(w, "Resource", orDash(t.AssignedResource))

	due := orDash(t.DueDate)
	if board.IsOverdue(t, cfg, today) {
		due += warnStyle.Render(" (overdue)")
	}
	printField(w, "Start", orDash(t.StartDate))
	printField(w, "Due", due)
	printField(w, "Duration", durationDays(t.Duration))

	if t.NeedsApproval {
		printField(w, "Approval", approvalStyle.Render("pending"))
	}
	printField(w, "Modified by", orDash(t.LastModifiedBy))
	printField(w, "Created", t.Created.Format(timeLayout))
	printField(w, "Updated", t.Updated.Format(timeLayout)+dimStyle.Render(" ("+humanize.Time(t.Updated)+")"))
	if t.Started != nil {
		printField(w, "Started", t.Started.Format(timeLayout))
	}
	if t.Completed != nil {
		printField(w, "Completed", t.Completed.Format(timeLayout))
		if t.Started != nil {
			printField(w, "Cycle time", FormatDuration(t.Completed.Sub(*t.Started)))
		}
	}

	if t.DocumentName != "" || len(t.Documents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Documents"))
		if t.DocumentName != "" {
			printField(w, "Label", t.DocumentName)
		}
		for _, d := range t.Documents {
			fmt.Fprintf(w, "  %s %s %s\n", d.Name,
				dimStyle.Render("("+humanize.Bytes(uint64(max(d.Size, 0)))+", "+orDash(d.Type)+")"), //nolint:gosec // clamped
				d.URL)
		}
	}

	if t.Body != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, RenderNotes(t.Body))
	}
}

// RenderNotes renders markdown notes for the terminal. It falls back to the
// raw text when color is disabled or rendering fails.
func RenderNotes(body string) string {
	plain := body
	if !strings.HasSuffix(plain, "\n") {
		plain += "\n"
	}
	if !colorEnabled {
		return plain
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(notesWidth),
	)
	if err != nil {
		return plain
	}
	out, err := r.Render(body)
	if err != nil {
		return plain
	}
	return out
}

// FormatDuration renders a duration as human-readable "Xd Yh" or "Xh Ym".
func FormatDuration(d time.Duration) string {
	const hoursPerDay = 24
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
	}
	minutes := int(d.Minutes()) % 60 //nolint:mnd // 60 minutes per hour
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}

func durationDays(d *int) string {
	switch {
	case d == nil:
		return dimStyle.Render(dash)
	case *d == 1:
		return "1 day"
	default:
		return strconv.Itoa(*d) + " days"
	}
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-13s %s\n", label+":", value)
}
