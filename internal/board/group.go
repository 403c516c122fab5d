package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// Group-by fields.
const (
	GroupMarket       = "market"
	GroupCoordination = "coordination"
	GroupResource     = "resource"
	GroupStatus       = "status"
)

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Field  string         `json:"field"`
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key      string          `json:"key"`
	Statuses []StatusSummary `json:"statuses"`
	Total    int             `json:"total"`
}

// GroupBy groups tasks by the specified field and returns summaries per group.
func GroupBy(tasks []*task.Task, field string, cfg *config.Config, today date.Date) GroupedSummary {
	groups := make(map[string][]*task.Task)
	for _, t := range tasks {
		key := groupKey(t, field)
		groups[key] = append(groups[key], t)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	if field == GroupStatus {
		sort.SliceStable(keys, func(i, j int) bool {
			return cfg.StatusIndex(keys[i]) < cfg.StatusIndex(keys[j])
		})
	} else {
		sort.Strings(keys)
	}

	result := GroupedSummary{
		Field:  field,
		Groups: make([]GroupSummary, 0, len(keys)),
	}
	for _, key := range keys {
		ov := Summary(cfg, groups[key], today)
		result.Groups = append(result.Groups, GroupSummary{
			Key:      key,
			Statuses: ov.Statuses,
			Total:    ov.TotalTasks,
		})
	}
	return result
}

func groupKey(t *task.Task, field string) string {
	var key, empty string
	switch field {
	case GroupMarket:
		key, empty = t.MarketRef, "(no market)"
	case GroupCoordination:
		key, empty = t.Coordination, "(none)"
	case GroupResource:
		key, empty = t.AssignedResource, "(unassigned)"
	case GroupStatus:
		key, empty = t.Status, "(none)"
	default:
		return "(all)"
	}
	if key == "" {
		return empty
	}
	return key
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{GroupMarket, GroupCoordination, GroupResource, GroupStatus}
}
