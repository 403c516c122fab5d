package board

import (
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List loads all tasks, applies filters and sorting.
// Uses lenient parsing: malformed task files are skipped and returned as warnings.
func List(cfg *config.Config, opts ListOptions) ([]*task.Task, []task.ReadWarning, error) {
	all, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return nil, nil, err
	}

	tasks := Filter(all, opts.Filter)

	sortField := opts.SortBy
	if sortField == "" {
		sortField = SortID
	}
	Sort(tasks, sortField, opts.Reverse, cfg)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks, warnings, nil
}

// StatusSummary holds metrics for a single status column.
type StatusSummary struct {
	Status          string `json:"status"`
	Label           string `json:"label"`
	Count           int    `json:"count"`
	Overdue         int    `json:"overdue"`
	PendingApproval int    `json:"pending_approval"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName       string          `json:"board_name"`
	Market          string          `json:"market,omitempty"`
	TotalTasks      int             `json:"total_tasks"`
	Overdue         int             `json:"overdue"`
	PendingApproval int             `json:"pending_approval"`
	Statuses        []StatusSummary `json:"statuses"`
}

// Summary computes per-status counts, overdue tasks and pending approvals.
// Tasks with a status missing from the config count toward the total only.
func Summary(cfg *config.Config, tasks []*task.Task, today date.Date) Overview {
	names := cfg.StatusNames()
	byStatus := make(map[string]*StatusSummary, len(names))
	statuses := make([]StatusSummary, len(names))
	for i, s := range names {
		statuses[i] = StatusSummary{Status: s, Label: cfg.StatusLabel(s)}
		byStatus[s] = &statuses[i]
	}

	ov := Overview{BoardName: cfg.Board.Name, TotalTasks: len(tasks)}
	for _, t := range tasks {
		overdue := IsOverdue(t, cfg, today)
		if overdue {
			ov.Overdue++
		}
		if t.NeedsApproval {
			ov.PendingApproval++
		}

		ss, ok := byStatus[t.Status]
		if !ok {
			continue
		}
		ss.Count++
		if overdue {
			ss.Overdue++
		}
		if t.NeedsApproval {
			ss.PendingApproval++
		}
	}
	ov.Statuses = statuses
	return ov
}

// IsOverdue reports whether t has a due date before today and is not in
// the terminal status. Unparseable due dates are never overdue.
func IsOverdue(t *task.Task, cfg *config.Config, today date.Date) bool {
	if t.DueDate == "" || cfg.IsTerminalStatus(t.Status) {
		return false
	}
	due, err := date.Parse(t.DueDate)
	if err != nil {
		return false
	}
	return due.Before(today.Time)
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []*task.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}
