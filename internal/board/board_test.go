package board

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

func fixtures() []*task.Task {
	return []*task.Task{
		{ID: 1, MarketRef: "M-1", Title: "Survey", Status: task.StatusNotStarted, Coordination: "UCP",
			StartDate: "2024-01-01", DueDate: "2024-01-05", Duration: task.IntPtr(4), AssignedResource: "Team A"},
		{ID: 2, MarketRef: "M-1", Title: "Design", Status: task.StatusInProgress, Coordination: "DGTP",
			DueDate: "2024-03-01", NeedsApproval: true, AssignedResource: "team a",
			Documents: []task.Document{{Name: "plans.pdf"}}},
		{ID: 3, MarketRef: "M-2", Title: "Build", Status: task.StatusDone, Coordination: "UCP",
			StartDate: "2023-12-01", DueDate: "2024-01-02", Duration: task.IntPtr(32)},
		{ID: 4, MarketRef: "", Title: "Handover", Status: task.StatusInProgress, Coordination: "UCP",
			Body: "Keys to the **site office**."},
	}
}

func ids(tasks []*task.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		opts FilterOptions
		want []int
	}{
		{"none", FilterOptions{}, []int{1, 2, 3, 4}},
		{"market", FilterOptions{Market: "M-1"}, []int{1, 2}},
		{"statuses", FilterOptions{Statuses: []string{task.StatusInProgress, task.StatusDone}}, []int{2, 3, 4}},
		{"coordination", FilterOptions{Coordination: "DGTP"}, []int{2}},
		{"resource case-insensitive", FilterOptions{Resource: "TEAM A"}, []int{1, 2}},
		{"needs approval", FilterOptions{NeedsApproval: &yes}, []int{2}},
		{"no approval needed", FilterOptions{NeedsApproval: &no}, []int{1, 3, 4}},
		{"search title", FilterOptions{Search: "surv"}, []int{1}},
		{"search body", FilterOptions{Search: "site office"}, []int{4}},
		{"search document", FilterOptions{Search: "PLANS"}, []int{2}},
		{"combined", FilterOptions{Market: "M-1", Coordination: "UCP"}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixtures(), tt.opts)))
		})
	}
}

func TestFilterNoMatchIsEmpty(t *testing.T) {
	assert.Empty(t, Filter(fixtures(), FilterOptions{Market: "none"}))
}

func TestSort(t *testing.T) {
	cfg := config.NewDefault("x")
	tests := []struct {
		field   string
		reverse bool
		want    []int
	}{
		{SortID, false, []int{1, 2, 3, 4}},
		{SortID, true, []int{4, 3, 2, 1}},
		{SortStatus, false, []int{1, 2, 4, 3}},
		{SortStart, false, []int{3, 1, 2, 4}},
		{SortStart, true, []int{1, 3, 2, 4}},
		{SortDue, false, []int{3, 1, 2, 4}},
		{SortDuration, false, []int{1, 3, 2, 4}},
		{SortDuration, true, []int{3, 1, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			tasks := fixtures()
			Sort(tasks, tt.field, tt.reverse, cfg)
			assert.Equal(t, tt.want, ids(tasks))
		})
	}
}

func TestSortUpdated(t *testing.T) {
	cfg := config.NewDefault("x")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []*task.Task{
		{ID: 1, Updated: base.Add(2 * time.Hour)},
		{ID: 2, Updated: base},
		{ID: 3, Updated: base.Add(time.Hour)},
	}
	Sort(tasks, SortUpdated, false, cfg)
	assert.Equal(t, []int{2, 3, 1}, ids(tasks))
}

func TestSummary(t *testing.T) {
	cfg := config.NewDefault("markets")
	ov := Summary(cfg, fixtures(), date.New(2024, 2, 1))

	assert.Equal(t, "markets", ov.BoardName)
	assert.Equal(t, 4, ov.TotalTasks)
	assert.Equal(t, 1, ov.Overdue, "task 1 is overdue; task 3 is done")
	assert.Equal(t, 1, ov.PendingApproval)

	require.Len(t, ov.Statuses, 3)
	assert.Equal(t, StatusSummary{Status: task.StatusNotStarted, Label: "Not started", Count: 1, Overdue: 1}, ov.Statuses[0])
	assert.Equal(t, StatusSummary{Status: task.StatusInProgress, Label: "In progress", Count: 2, PendingApproval: 1}, ov.Statuses[1])
	assert.Equal(t, 1, ov.Statuses[2].Count)
}

func TestIsOverdue(t *testing.T) {
	cfg := config.NewDefault("x")
	today := date.New(2024, 1, 10)

	assert.True(t, IsOverdue(&task.Task{Status: task.StatusInProgress, DueDate: "2024-01-09"}, cfg, today))
	assert.False(t, IsOverdue(&task.Task{Status: task.StatusInProgress, DueDate: "2024-01-10"}, cfg, today))
	assert.False(t, IsOverdue(&task.Task{Status: task.StatusDone, DueDate: "2024-01-01"}, cfg, today))
	assert.False(t, IsOverdue(&task.Task{Status: task.StatusInProgress, DueDate: "garbage"}, cfg, today))
	assert.False(t, IsOverdue(&task.Task{Status: task.StatusInProgress}, cfg, today))
}

func TestGroupBy(t *testing.T) {
	cfg := config.NewDefault("x")
	today := date.New(2024, 2, 1)

	g := GroupBy(fixtures(), GroupMarket, cfg, today)
	require.Len(t, g.Groups, 3)
	assert.Equal(t, "(no market)", g.Groups[0].Key)
	assert.Equal(t, "M-1", g.Groups[1].Key)
	assert.Equal(t, 2, g.Groups[1].Total)
	assert.Equal(t, "M-2", g.Groups[2].Key)

	g = GroupBy(fixtures(), GroupStatus, cfg, today)
	require.Len(t, g.Groups, 3)
	assert.Equal(t, task.StatusNotStarted, g.Groups[0].Key)
	assert.Equal(t, task.StatusDone, g.Groups[2].Key)

	g = GroupBy(fixtures(), GroupResource, cfg, today)
	assert.Equal(t, "(unassigned)", g.Groups[0].Key)
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(fixtures())
	assert.Equal(t, 2, counts[task.StatusInProgress])
	assert.Equal(t, 1, counts[task.StatusDone])
}

func TestList(t *testing.T) {
	cfg, err := config.Init(filepath.Join(t.TempDir(), "board"), "x")
	require.NoError(t, err)
	for _, tk := range fixtures() {
		require.NoError(t, task.Write(filepath.Join(cfg.TasksPath(), task.GenerateFilename(tk.ID, tk.Title)), tk))
	}

	got, warnings, err := List(cfg, ListOptions{
		Filter:  FilterOptions{Coordination: "UCP"},
		SortBy:  SortID,
		Reverse: true,
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []int{4, 3}, ids(got))
}

func TestActivityLog(t *testing.T) {
	dir := t.TempDir()
	LogMutation(dir, LogEntry{Action: ActionCreate, TaskID: 1, User: "u1"})
	LogMutation(dir, LogEntry{Action: ActionEdit, TaskID: 2, User: "u2", NeedsApproval: true})
	LogMutation(dir, LogEntry{Action: ActionAttach, TaskID: 1, User: "u1", Detail: "2 documents"})

	all, err := ReadLog(dir, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.False(t, all[0].Timestamp.IsZero())

	one, err := ReadLog(dir, 1)
	require.NoError(t, err)
	require.Len(t, one, 2)
	assert.Equal(t, ActionAttach, one[1].Action)

	none, err := ReadLog(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
