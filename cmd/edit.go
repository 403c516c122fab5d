package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/attach"
	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.

Edits by users whose role is not an admin role are flagged as needing approval.
When both start and due dates are set the duration follows them; to change
the duration of a scheduled task, give a new --due instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	addFieldFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	prev, err := task.Load(cfg.TasksPath(), id)
	if err != nil {
		return err
	}

	refs := attach.NewRegistry()
	defer refs.RevokeAll()

	e := newEditor(cfg, sessionOptions(cfg, u, "", prev))
	if err := applyFieldFlags(cmd, e); err != nil {
		return err
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	changed := anyFieldFlag(cmd)
	switch {
	case interactive || (!changed && stdinIsTerminal()):
		if err := runInteractive(e); err != nil {
			if errors.Is(err, errCancelled) {
				return e.s.Cancel(func() { output.Messagef(cmd.ErrOrStderr(), "Cancelled") })
			}
			return err
		}
	case !changed:
		return clierr.New(clierr.NoChanges, "no changes specified")
	}

	if patterns, _ := cmd.Flags().GetStringSlice("attach"); len(patterns) > 0 {
		if err := attachPatterns(e, patterns, refs); err != nil {
			return err
		}
	}

	sub := &submitter{cfg: cfg, refs: refs, action: board.ActionEdit, prev: prev}
	if cmd.Flags().Changed("body") {
		body, _ := cmd.Flags().GetString("body")
		sub.body = &body
	}
	issues := reportIssues(e.issues)
	if err := e.s.Submit(sub.submit); err != nil {
		return err
	}
	return outputSaved("Updated", sub.saved, issues)
}
