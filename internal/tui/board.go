// Package tui implements a live terminal board for marketboard tasks.
package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
)

var errReadOnly = errors.New("board is read-only")

const (
	boardChrome  = 2 // blank line + status bar below the column area
	errorChrome  = 1 // extra line when an error is displayed
	tickInterval = time.Minute
)

// MoveFunc changes the status of a task and persists it. The board reloads
// from disk afterwards.
type MoveFunc func(t *task.Task, status string) error

// Options configure a Board.
type Options struct {
	Config *config.Config
	// Market limits the board to one market when set.
	Market string
	// Move enables status changes from the board. Nil makes the board read-only.
	Move MoveFunc
}

// Board is the top-level bubbletea model.
type Board struct {
	cfg          *config.Config
	market       string
	move         MoveFunc
	tasks        []*task.Task
	columns      []column
	activeCol    int
	activeRow    int
	view         view
	onlyApproval bool
	width        int
	height       int
	err          error
	now          func() time.Time
}

// column groups tasks belonging to a single status.
type column struct {
	status    string
	label     string
	tasks     []*task.Task
	scrollOff int // first visible row index
}

// NewBoard creates a new Board model.
func NewBoard(opts Options) *Board {
	b := &Board{
		cfg:    opts.Config,
		market: opts.Market,
		move:   opts.Move,
		now:    time.Now,
	}
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for overdue highlighting (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

func (b *Board) today() date.Date {
	n := b.now()
	return date.New(n.Year(), n.Month(), n.Day())
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.loadTasks()
		return b, nil
	case TickMsg:
		return b, tickCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.view == viewDetail {
		if t := b.selectedTask(); t != nil {
			return b.viewDetail(t)
		}
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return b, tea.Quit
	}

	if b.view == viewDetail {
		if key.Matches(msg, keys.Back, keys.Detail) {
			b.view = viewBoard
		}
		return b, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		return b, tea.Quit
	case key.Matches(msg, keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, keys.Down):
		if col := b.currentColumn(); col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Detail):
		if b.selectedTask() != nil {
			b.view = viewDetail
		}
	case key.Matches(msg, keys.Forward):
		b.moveSelected(1)
	case key.Matches(msg, keys.Backward):
		b.moveSelected(-1)
	case key.Matches(msg, keys.Approval):
		b.onlyApproval = !b.onlyApproval
		b.loadTasks()
	case key.Matches(msg, keys.Reload):
		b.loadTasks()
	}
	return b, nil
}

// moveSelected moves the selected card delta columns and keeps it selected.
func (b *Board) moveSelected(delta int) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	if b.move == nil {
		b.err = errReadOnly
		return
	}
	target := b.activeCol + delta
	if target < 0 || target >= len(b.columns) {
		return
	}

	id := t.ID
	if err := b.move(t, b.columns[target].status); err != nil {
		b.err = fmt.Errorf("moving task #%d: %w", id, err)
		return
	}
	b.loadTasks()
	b.activeCol = target
	for i, ct := range b.columns[target].tasks {
		if ct.ID == id {
			b.activeRow = i
		}
	}
	b.ensureVisible()
}

// handleMouse selects the clicked card.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || b.view != viewBoard {
		return b, nil
	}

	colWidth := b.columnWidth()
	clickedCol := msg.X / colWidth
	if clickedCol >= len(b.columns) {
		return b, nil
	}
	b.activeCol = clickedCol

	col := &b.columns[clickedCol]
	lineY := msg.Y - 1 // header
	if col.scrollOff > 0 {
		lineY-- // "more" indicator
	}
	cardLine := 0
	for row := col.scrollOff; row < len(col.tasks) && lineY >= 0; row++ {
		h := b.cardHeight(col.tasks[row], colWidth)
		if lineY < cardLine+h {
			b.activeRow = row
			b.ensureVisible()
			return b, nil
		}
		cardLine += h
	}
	b.clampRow()
	return b, nil
}

// loadTasks reads all tasks and organizes them into columns.
func (b *Board) loadTasks() {
	all, _, err := task.ReadAllLenient(b.cfg.TasksPath())
	if err != nil {
		b.err = err
		return
	}
	b.err = nil

	opts := board.FilterOptions{Market: b.market}
	if b.onlyApproval {
		pending := true
		opts.NeedsApproval = &pending
	}
	b.tasks = board.Filter(all, opts)
	board.Sort(b.tasks, board.SortDue, false, b.cfg)

	b.columns = make([]column, len(b.cfg.Statuses))
	for i, s := range b.cfg.Statuses {
		b.columns[i] = column{status: s.Name, label: b.cfg.StatusLabel(s.Name)}
	}
	for _, t := range b.tasks {
		if i := b.cfg.StatusIndex(t.Status); i >= 0 {
			b.columns[i].tasks = append(b.columns[i].tasks, t)
		}
	}
	b.clampRow()
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || b.activeRow < 0 || b.activeRow >= len(col.tasks) {
		return nil
	}
	return col.tasks[b.activeRow]
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

func (b *Board) chromeHeight() int {
	if b.err != nil {
		return boardChrome + errorChrome
	}
	return boardChrome
}

// visibleCards returns how many cards of col fit below its header,
// leaving room for the scroll indicators.
func (b *Board) visibleCards(col *column, width int) int {
	avail := b.height - b.chromeHeight() - 1
	if col.scrollOff > 0 {
		avail--
	}
	n := b.fitCards(col, avail, width)
	if col.scrollOff+n < len(col.tasks) {
		n = max(b.fitCards(col, avail-1, width), 1)
	}
	return n
}

func (b *Board) fitCards(col *column, avail, width int) int {
	used, count := 0, 0
	for i := col.scrollOff; i < len(col.tasks); i++ {
		h := b.cardHeight(col.tasks[i], width)
		if count > 0 && used+h > avail {
			break
		}
		count++
		used += h
	}
	return max(count, 1)
}

// ensureVisible scrolls the active column so the selected card is shown.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil || b.height == 0 {
		return
	}
	w := b.columnWidth()
	for range len(col.tasks) + 1 {
		n := b.visibleCards(col, w)
		switch {
		case b.activeRow >= col.scrollOff+n:
			col.scrollOff = b.activeRow - n + 1
		case b.activeRow < col.scrollOff:
			col.scrollOff = b.activeRow
		default:
			return
		}
	}
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.TasksPath(), b.cfg.Dir()}
}

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// TickMsg is sent periodically so overdue highlighting follows the date.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}
