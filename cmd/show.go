package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long: `Displays full details of a single task including its documents and
markdown notes. Use --activity to include the task's activity log.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("activity", false, "include the activity log")
	rootCmd.AddCommand(showCmd)
}

// showResult is the JSON shape of show --activity.
type showResult struct {
	Task     *task.Task       `json:"task"`
	Activity []board.LogEntry `json:"activity"`
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, err := task.Load(cfg.TasksPath(), id)
	if err != nil {
		return err
	}

	withActivity, _ := cmd.Flags().GetBool("activity")
	var entries []board.LogEntry
	if withActivity {
		if entries, err = board.ReadLog(cfg.Dir(), id); err != nil {
			return err
		}
	}

	format := outputFormat()
	switch {
	case format == output.FormatJSON && withActivity:
		if entries == nil {
			entries = []board.LogEntry{}
		}
		return output.JSON(os.Stdout, showResult{Task: t, Activity: entries})
	case format == output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case format == output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t)
	default:
		output.TaskDetail(os.Stdout, t, cfg, date.Today())
	}

	if withActivity {
		printActivity(entries)
	}
	return nil
}

func printActivity(entries []board.LogEntry) {
	fmt.Fprintln(os.Stdout)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No activity recorded.")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-6s %s", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, orNone(e.User))
		if e.NeedsApproval {
			line += "  (needs approval)"
		}
		fmt.Fprintln(os.Stdout, line)
	}
}
