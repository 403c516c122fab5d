package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/logging"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
	"github.com/twiced-technology-gmbh/marketboard/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the current market: task counts per status, overdue
tasks and edits waiting for approval.

Use --watch to keep the display live-updating. The board re-renders automatically
whenever task files change on disk. Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the board on file changes")
	boardCmd.Flags().Bool("all-markets", false, "ignore the market context")
	boardCmd.Flags().String("group-by", "", "group board by field (market, coordination, resource, status)")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	groupBy, _ := cmd.Flags().GetString("group-by")
	if err := validateGroupBy(groupBy); err != nil {
		return err
	}
	market := ""
	if all, _ := cmd.Flags().GetBool("all-markets"); !all {
		market = resolveMarket(cfg)
	}

	if err := renderBoard(cfg, market, groupBy); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}

	return watchBoard(cfg, market, groupBy)
}

func renderBoard(cfg *config.Config, market, groupBy string) error {
	all, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return err
	}
	printWarnings(warnings)

	tasks := board.Filter(all, board.FilterOptions{Market: market})
	if tasks == nil {
		tasks = []*task.Task{}
	}

	if groupBy != "" {
		return outputGrouped(tasks, groupBy, cfg)
	}

	summary := board.Summary(cfg, tasks, date.Today())
	summary.Market = market

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}

func watchBoard(cfg *config.Config, market, groupBy string) error {
	logger := logging.Component("watch")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{cfg.TasksPath(), cfg.Dir()}, func() {
		clearScreen()
		// Re-load config in case statuses changed.
		freshCfg, loadErr := config.Load(cfg.Dir())
		if loadErr != nil {
			logger.Warn().Err(loadErr).Msg("reloading config")
			freshCfg = cfg
		}
		if renderErr := renderBoard(freshCfg, market, groupBy); renderErr != nil {
			logger.Warn().Err(renderErr).Msg("rendering board")
		}
	}, watcher.WithFilter(watcher.BoardFiles))
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		logger.Warn().Err(watchErr).Msg("file watcher")
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
