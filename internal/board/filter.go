// Package board provides board-level operations on task collections.
package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// FilterOptions defines which tasks to include. Zero values do not filter.
type FilterOptions struct {
	Market        string
	Statuses      []string
	Coordination  string
	Resource      string // case-insensitive match on the assigned resource
	NeedsApproval *bool  // nil=no filter
	Search        string // case-insensitive substring match across text fields
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matches(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matches(t *task.Task, opts FilterOptions) bool {
	switch {
	case opts.Market != "" && t.MarketRef != opts.Market:
		return false
	case len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, t.Status):
		return false
	case opts.Coordination != "" && t.Coordination != opts.Coordination:
		return false
	case opts.Resource != "" && !strings.EqualFold(t.AssignedResource, opts.Resource):
		return false
	case opts.NeedsApproval != nil && t.NeedsApproval != *opts.NeedsApproval:
		return false
	case opts.Search != "" && !matchesSearch(t, opts.Search):
		return false
	}
	return true
}

// matchesSearch looks for query in the title, notes, market reference,
// assigned resource and document names.
func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	fields := []string{t.Title, t.Body, t.MarketRef, t.AssignedResource, t.DocumentName}
	for _, d := range t.Documents {
		fields = append(fields, d.Name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
