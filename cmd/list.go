package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists the tasks of the current market with optional filtering, sorting,
and output format control. Use --all-markets to list every market.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	listCmd.Flags().String("unit", "", "filter by coordination unit")
	listCmd.Flags().String("resource", "", "filter by assigned resource")
	listCmd.Flags().Bool("needs-approval", false, "show only tasks waiting for approval")
	listCmd.Flags().Bool("approved", false, "show only tasks not waiting for approval")
	listCmd.Flags().Bool("all-markets", false, "ignore the market context")
	listCmd.Flags().StringP("search", "s", "", "search tasks by title, document name, or notes (case-insensitive)")
	listCmd.Flags().String("sort", board.SortID, "sort field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().String("group-by", "", "group results by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	statuses, _ := cmd.Flags().GetStringSlice("status")
	unit, _ := cmd.Flags().GetString("unit")
	resource, _ := cmd.Flags().GetString("resource")
	needsApproval, _ := cmd.Flags().GetBool("needs-approval")
	approved, _ := cmd.Flags().GetBool("approved")
	allMarkets, _ := cmd.Flags().GetBool("all-markets")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	groupBy, _ := cmd.Flags().GetString("group-by")

	if err := validateGroupBy(groupBy); err != nil {
		return err
	}
	if !slices.Contains(board.ValidSortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.ValidSortFields(), ", "))
	}
	for _, s := range statuses {
		if err := task.ValidateStatus(s, cfg.StatusNames()); err != nil {
			return err
		}
	}
	if needsApproval && approved {
		return clierr.New(clierr.InvalidInput, "--needs-approval and --approved are mutually exclusive")
	}

	filter := board.FilterOptions{
		Statuses:     statuses,
		Coordination: unit,
		Resource:     resource,
		Search:       search,
	}
	if !allMarkets {
		filter.Market = resolveMarket(cfg)
	}
	if needsApproval || approved {
		v := needsApproval
		filter.NeedsApproval = &v
	}

	tasks, warnings, err := board.List(cfg, board.ListOptions{
		Filter:  filter,
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	})
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if groupBy != "" {
		return outputGrouped(tasks, groupBy, cfg)
	}
	return outputTaskList(tasks, cfg)
}

func validateGroupBy(groupBy string) error {
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}
	return nil
}

func outputGrouped(tasks []*task.Task, groupBy string, cfg *config.Config) error {
	grouped := board.GroupBy(tasks, groupBy, cfg, date.Today())
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, grouped)
	}
	output.GroupedTable(os.Stdout, grouped)
	return nil
}

func outputTaskList(tasks []*task.Task, cfg *config.Config) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks, cfg)
	return nil
}
