package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// Sort fields.
const (
	SortID       = "id"
	SortStatus   = "status"
	SortStart    = "start"
	SortDue      = "due"
	SortDuration = "duration"
	SortUpdated  = "updated"
	SortCreated  = "created"
)

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{SortID, SortStatus, SortStart, SortDue, SortDuration, SortUpdated, SortCreated}
}

// Sort sorts tasks by the given field. Status uses the config order. Tasks
// missing the sort value go last in both directions; ties keep ID order.
func Sort(tasks []*task.Task, field string, reverse bool, cfg *config.Config) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		c := compare(a, b, field, cfg)
		if c == 0 {
			return a.ID < b.ID
		}
		if reverse && !missing(a, field) && !missing(b, field) {
			return c > 0
		}
		return c < 0
	})
}

// compare returns -1, 0 or 1. Missing values compare greater than present ones.
func compare(a, b *task.Task, field string, cfg *config.Config) int {
	if ma, mb := missing(a, field), missing(b, field); ma || mb {
		switch {
		case ma && mb:
			return 0
		case ma:
			return 1
		default:
			return -1
		}
	}

	switch field {
	case SortStatus:
		return cmpInt(cfg.StatusIndex(a.Status), cfg.StatusIndex(b.Status))
	case SortStart:
		return cmpString(a.StartDate, b.StartDate)
	case SortDue:
		return cmpString(a.DueDate, b.DueDate)
	case SortDuration:
		return cmpInt(*a.Duration, *b.Duration)
	case SortUpdated:
		return a.Updated.Compare(b.Updated)
	case SortCreated:
		return a.Created.Compare(b.Created)
	default:
		return cmpInt(a.ID, b.ID)
	}
}

func missing(t *task.Task, field string) bool {
	switch field {
	case SortStart:
		return t.StartDate == ""
	case SortDue:
		return t.DueDate == ""
	case SortDuration:
		return t.Duration == nil
	default:
		return false
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpString orders ISO dates, which sort lexically.
func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
