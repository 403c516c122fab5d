package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/attach"
	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/form"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task in the current market.

Title can be provided as a positional argument or via --title flag. Give any
two of --start, --due and --duration and the third is derived. Without field
flags on a terminal, or with --interactive, an interactive form is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	addFieldFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	u, err := resolveUser(cfg)
	if err != nil {
		return err
	}

	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	refs := attach.NewRegistry()
	defer refs.RevokeAll()

	e := newEditor(cfg, sessionOptions(cfg, u, resolveMarket(cfg), nil))
	if title != "" {
		if err := e.set(form.FieldTitle, title); err != nil {
			return err
		}
	}
	if err := applyFieldFlags(cmd, e); err != nil {
		return err
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive || (title == "" && !anyFieldFlag(cmd) && stdinIsTerminal()) {
		if err := runInteractive(e); err != nil {
			if errors.Is(err, errCancelled) {
				return e.s.Cancel(func() { output.Messagef(cmd.ErrOrStderr(), "Cancelled") })
			}
			return err
		}
	} else if state, _ := e.s.State(); strings.TrimSpace(state.Title) == "" {
		return clierr.New(clierr.InvalidInput, "title is required: provide it as an argument or with --title")
	}

	if patterns, _ := cmd.Flags().GetStringSlice("attach"); len(patterns) > 0 {
		if err := attachPatterns(e, patterns, refs); err != nil {
			return err
		}
	}

	sub := &submitter{cfg: cfg, refs: refs, action: board.ActionCreate}
	if cmd.Flags().Changed("body") {
		body, _ := cmd.Flags().GetString("body")
		sub.body = &body
	}
	issues := reportIssues(e.issues)
	if err := e.s.Submit(sub.submit); err != nil {
		return err
	}
	return outputSaved("Created", sub.saved, issues)
}

// resolveCreateTitle returns the task title from either the positional arg
// or --title flag. An empty result means no title was given.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	if len(args) > 0 && flagTitle != "" {
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", nil
}
