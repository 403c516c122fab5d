package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/attach"
	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

var attachCmd = &cobra.Command{
	Use:   "attach ID FILE|GLOB...",
	Short: "Attach documents to a task",
	Long: `Appends one document per matching file to the task, in the order given.
Glob patterns support ** for recursive matches. Files are copied into the
board's documents directory.`,
	Args: cobra.MinimumNArgs(2), //nolint:mnd // ID and at least one file
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
}

func runAttach(_ *cobra.Command, args []string) error {
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
	if err := attachPatterns(e, args[1:], refs); err != nil {
		return err
	}

	sub := &submitter{cfg: cfg, refs: refs, action: board.ActionAttach, prev: prev}
	if err := e.s.Submit(sub.submit); err != nil {
		return err
	}
	return outputSaved("Updated", sub.saved, nil)
}
