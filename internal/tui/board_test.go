package tui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

func setupBoard(t *testing.T, tasks ...*task.Task) *config.Config {
	t.Helper()
	cfg, err := config.Init(filepath.Join(t.TempDir(), "board"), "markets")
	require.NoError(t, err)
	for _, tk := range tasks {
		require.NoError(t, task.Write(filepath.Join(cfg.TasksPath(), task.GenerateFilename(tk.ID, tk.Title)), tk))
	}
	return cfg
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(b *Board) *Board {
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b
}

func TestBoardColumns(t *testing.T) {
	cfg := setupBoard(t,
		&task.Task{ID: 1, MarketRef: "M-1", Title: "Survey", Status: task.StatusNotStarted},
		&task.Task{ID: 2, MarketRef: "M-1", Title: "Design", Status: task.StatusInProgress, NeedsApproval: true},
		&task.Task{ID: 3, MarketRef: "M-2", Title: "Build", Status: task.StatusInProgress},
	)
	b := sized(NewBoard(Options{Config: cfg}))
	b.SetNow(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })

	require.Len(t, b.columns, 3)
	assert.Len(t, b.columns[0].tasks, 1)
	assert.Len(t, b.columns[1].tasks, 2)

	out := b.View()
	assert.Contains(t, out, "Not started (1)")
	assert.Contains(t, out, "In progress (2)")
	assert.Contains(t, out, "#2 Design")
}

func TestBoardMarketAndApprovalFilters(t *testing.T) {
	cfg := setupBoard(t,
		&task.Task{ID: 1, MarketRef: "M-1", Title: "Survey", Status: task.StatusNotStarted},
		&task.Task{ID: 2, MarketRef: "M-1", Title: "Design", Status: task.StatusInProgress, NeedsApproval: true},
		&task.Task{ID: 3, MarketRef: "M-2", Title: "Build", Status: task.StatusInProgress},
	)
	b := sized(NewBoard(Options{Config: cfg, Market: "M-1"}))
	assert.Len(t, b.tasks, 2)

	b.Update(keyMsg("a"))
	require.Len(t, b.tasks, 1)
	assert.Equal(t, 2, b.tasks[0].ID)
	assert.Contains(t, b.View(), "[approvals]")
}

func TestBoardNavigationAndDetail(t *testing.T) {
	cfg := setupBoard(t,
		&task.Task{ID: 1, Title: "Survey", Status: task.StatusNotStarted},
		&task.Task{ID: 2, Title: "Design", Status: task.StatusInProgress, DueDate: "2024-02-01"},
		&task.Task{ID: 3, Title: "Build", Status: task.StatusInProgress, DueDate: "2024-03-01"},
	)
	b := sized(NewBoard(Options{Config: cfg}))

	b.Update(keyMsg("l"))
	b.Update(keyMsg("j"))
	require.NotNil(t, b.selectedTask())
	assert.Equal(t, 3, b.selectedTask().ID)

	b.Update(keyMsg("enter"))
	assert.Contains(t, b.View(), "Task #3: Build")
	b.Update(keyMsg("esc"))
	assert.Equal(t, viewBoard, b.view)
}

func TestBoardMove(t *testing.T) {
	cfg := setupBoard(t, &task.Task{ID: 1, Title: "Survey", Status: task.StatusNotStarted})

	var moved []string
	move := func(tk *task.Task, status string) error {
		moved = append(moved, status)
		tk.Status = status
		return task.Write(tk.File, tk)
	}
	b := sized(NewBoard(Options{Config: cfg, Move: move}))

	b.Update(keyMsg(">"))
	assert.Equal(t, []string{task.StatusInProgress}, moved)
	assert.Equal(t, 1, b.activeCol)
	require.NotNil(t, b.selectedTask())
	assert.Equal(t, 1, b.selectedTask().ID)

	b.Update(keyMsg("<"))
	b.Update(keyMsg("<")) // already in the first column
	assert.Equal(t, []string{task.StatusInProgress, task.StatusNotStarted}, moved)
}

func TestBoardMoveErrors(t *testing.T) {
	cfg := setupBoard(t, &task.Task{ID: 1, Title: "Survey", Status: task.StatusNotStarted})

	b := sized(NewBoard(Options{Config: cfg}))
	b.Update(keyMsg(">"))
	require.ErrorIs(t, b.err, errReadOnly)

	boom := errors.New("locked")
	b = sized(NewBoard(Options{Config: cfg, Move: func(*task.Task, string) error { return boom }}))
	b.Update(keyMsg(">"))
	require.ErrorIs(t, b.err, boom)
	assert.Contains(t, b.View(), "Error: moving task #1")
}

func TestBoardQuit(t *testing.T) {
	cfg := setupBoard(t)
	b := sized(NewBoard(Options{Config: cfg}))
	_, cmd := b.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
}
