package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/attach"
	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/form"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

var moveCmd = &cobra.Command{
	Use:   "move ID [STATUS]",
	Short: "Move a task to a different status",
	Long: `Changes the status of a task. Provide the new status directly,
or use --next/--prev to move along the configured status order.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to next status")
	moveCmd.Flags().Bool("prev", false, "move to previous status")
	rootCmd.AddCommand(moveCmd)
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	*task.Task
	Changed bool `json:"changed"`
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	u, err := resolveUser(cfg)
	if err != nil {
		return err
	}

	t, err := task.Load(cfg.TasksPath(), id)
	if err != nil {
		return err
	}

	target, err := moveTarget(cmd, args, cfg, t)
	if err != nil {
		return err
	}

	if target == t.Status {
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, moveResult{Task: t, Changed: false})
		}
		output.Messagef(os.Stdout, "Task #%d is already %s", t.ID, cfg.StatusLabel(t.Status))
		return nil
	}

	oldStatus := t.Status
	saved, err := moveTask(cfg, u, t, target)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{Task: saved, Changed: true})
	}
	output.Messagef(os.Stdout, "Moved task #%d: %s -> %s", saved.ID,
		cfg.StatusLabel(oldStatus), cfg.StatusLabel(saved.Status))
	if saved.NeedsApproval {
		output.Messagef(os.Stdout, "  Needs approval (edited by %s)", saved.LastModifiedBy)
	}
	return nil
}

// moveTarget resolves the target status from the positional arg or the
// --next/--prev flags.
func moveTarget(cmd *cobra.Command, args []string, cfg *config.Config, t *task.Task) (string, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")

	switch {
	case len(args) == 2 && (next || prev): //nolint:mnd // ID and STATUS
		return "", clierr.New(clierr.InvalidInput, "provide a status or --next/--prev, not both")
	case next && prev:
		return "", clierr.New(clierr.InvalidInput, "--next and --prev are mutually exclusive")
	case len(args) == 2: //nolint:mnd // ID and STATUS
		return args[1], nil
	case !next && !prev:
		return "", clierr.New(clierr.InvalidInput, "provide a target status or use --next/--prev")
	}

	names := cfg.StatusNames()
	idx := cfg.StatusIndex(t.Status)
	if idx < 0 {
		return "", clierr.Newf(clierr.InvalidStatus, "task #%d has unknown status %q", t.ID, t.Status)
	}
	dir := "next"
	if next {
		idx++
	} else {
		idx--
		dir = "previous"
	}
	if idx < 0 || idx >= len(names) {
		return "", clierr.Newf(clierr.StatusConflict, "task #%d has no %s status", t.ID, dir)
	}
	return names[idx], nil
}

// moveTask changes the status of t through a form session and saves it.
func moveTask(cfg *config.Config, u form.User, t *task.Task, status string) (*task.Task, error) {
	e := newEditor(cfg, sessionOptions(cfg, u, "", t))
	if err := e.set(form.FieldStatus, status); err != nil {
		return nil, err
	}

	sub := &submitter{cfg: cfg, refs: attach.NewRegistry(), action: board.ActionEdit, prev: t}
	if err := e.s.Submit(sub.submit); err != nil {
		return nil, fmt.Errorf("moving task #%d: %w", t.ID, err)
	}
	return sub.saved, nil
}
