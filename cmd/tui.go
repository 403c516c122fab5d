package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/logging"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
	"github.com/twiced-technology-gmbh/marketboard/internal/tui"
	"github.com/twiced-technology-gmbh/marketboard/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the live board",
	Long: `Opens a live column board of the current market. Cards follow task files
on disk. With an acting user set, > and < move the selected card.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := tui.Options{Config: cfg, Market: resolveMarket(cfg)}
	if u, userErr := resolveUser(cfg); userErr == nil {
		opts.Move = func(t *task.Task, status string) error {
			_, err := moveTask(cfg, u, t, status)
			return err
		}
	} else {
		logger := logging.Component("tui")
		logger.Info().Err(userErr).Msg("no acting user; board is read-only")
	}

	model := tui.NewBoard(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	}, watcher.WithFilter(watcher.BoardFiles))
	if err != nil {
		logger := logging.Component("tui")
		logger.Warn().Err(err).Msg("live refresh disabled")
		return
	}
	defer w.Close()
	w.Run(ctx, nil)
}
