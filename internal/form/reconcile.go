package form

import (
	"strconv"

	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// Result reports what a reconciliation pass did.
type Result struct {
	// Derived is the field the pass computed, or "" when nothing was derived.
	Derived Field
	// Ignored lists inputs that were treated as unset for the pass.
	Ignored []Issue
}

// Reconcile keeps start date, due date and duration consistent. The first
// matching rule wins:
//
//  1. start and due set: duration = ceil(|due - start|) in days
//  2. start and duration set: due = start + duration
//  3. due and duration set: start = due - duration
//
// Malformed dates and negative durations count as unset and may be
// overwritten by a derived value. Reconcile does not modify t, and
// reconciling its own output changes nothing.
func Reconcile(t task.Task) (task.Task, Result) {
	out := t.Clone()
	var res Result

	start, hasStart := parseDate(FieldStartDate, out.StartDate, &res)
	due, hasDue := parseDate(FieldDueDate, out.DueDate, &res)

	hasDuration := out.Duration != nil
	if hasDuration && *out.Duration < 0 {
		res.Ignored = append(res.Ignored, Issue{
			Field:  FieldDuration,
			Input:  strconv.Itoa(*out.Duration),
			Reason: "is negative",
		})
		hasDuration = false
	}

	switch {
	case hasStart && hasDue:
		out.Duration = task.IntPtr(date.DaysBetween(start, due))
		res.Derived = FieldDuration
	case hasStart && hasDuration:
		out.DueDate = start.AddDays(*out.Duration).String()
		res.Derived = FieldDueDate
	case hasDue && hasDuration:
		out.StartDate = due.AddDays(-*out.Duration).String()
		res.Derived = FieldStartDate
	}

	return out, res
}

func parseDate(f Field, s string, res *Result) (date.Date, bool) {
	if s == "" {
		return date.Date{}, false
	}
	d, err := date.Parse(s)
	if err != nil {
		res.Ignored = append(res.Ignored, Issue{Field: f, Input: s, Reason: "is not a YYYY-MM-DD date"})
		return date.Date{}, false
	}
	return d, true
}
