package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/marketboard/internal/attach"
	"github.com/twiced-technology-gmbh/marketboard/internal/board"
	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/filelock"
	"github.com/twiced-technology-gmbh/marketboard/internal/form"
	"github.com/twiced-technology-gmbh/marketboard/internal/logging"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// sessionOptions seeds a form session from the board config.
func sessionOptions(cfg *config.Config, u form.User, market string, existing *task.Task) form.Options {
	return form.Options{
		Market:               market,
		User:                 u,
		Existing:             existing,
		DefaultStatus:        cfg.Defaults.Status,
		FallbackCoordination: cfg.Defaults.Coordination,
		AdminRoles:           cfg.AdminRoles,
	}
}

// editor wraps a form session and collects the issues of every update.
type editor struct {
	s      *form.Session
	cfg    *config.Config
	issues []form.Issue
}

func newEditor(cfg *config.Config, opts form.Options) *editor {
	return &editor{s: form.New(opts), cfg: cfg}
}

// set updates one field. Status values must be configured statuses; all
// other content goes to the form unchecked.
func (e *editor) set(f form.Field, value string) error {
	if f == form.FieldStatus {
		if err := task.ValidateStatus(value, e.cfg.StatusNames()); err != nil {
			return err
		}
	}
	if err := e.s.Set(f, value); err != nil {
		return fieldError(err, f)
	}
	e.issues = append(e.issues, e.s.Issues()...)
	return nil
}

// fieldError converts form usage errors into CLI errors.
func fieldError(err error, f form.Field) error {
	switch {
	case errors.Is(err, form.ErrReadOnlyField):
		return clierr.Newf(clierr.ReadOnlyField, "field %s cannot be changed", f).
			WithDetails(map[string]any{"field": string(f)})
	case errors.Is(err, form.ErrUnknownField):
		return clierr.Newf(clierr.InvalidInput, "unknown field %q", f).
			WithDetails(map[string]any{"field": string(f), "allowed": fieldNames()})
	default:
		return err
	}
}

func fieldNames() []string {
	names := make([]string, len(form.Fields))
	for i, f := range form.Fields {
		names[i] = string(f)
	}
	return names
}

// addFieldFlags registers the flags shared by create and edit.
func addFieldFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "task title")
	f.String("status", "", "task status")
	f.String("start", "", "start date (YYYY-MM-DD)")
	f.String("due", "", "due date (YYYY-MM-DD)")
	f.String("duration", "", "duration in days")
	f.String("resource", "", "assigned resource")
	f.String("document-name", "", "name of the deliverable document")
	f.StringArray("set", nil, "set a field as FIELD=VALUE (repeatable; fields: "+strings.Join(fieldNames(), ", ")+")")
	f.StringSlice("attach", nil, "attach files or glob patterns (comma-separated, repeatable)")
	f.String("body", "", "markdown notes (replaces existing notes)")
	f.BoolP("interactive", "i", false, "fill in the fields with an interactive form")
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "description", "notes":
			name = "body"
		case "assignee":
			name = "resource"
		case "start-date":
			name = "start"
		case "due-date":
			name = "due"
		}
		return pflag.NormalizedName(name)
	})
}

// fieldFlagNames lists every flag that changes the record.
var fieldFlagNames = []string{
	"title", "status", "start", "due", "duration", "resource", "document-name",
	"set", "attach", "body",
}

// anyFieldFlag reports whether a flag that changes the record was given.
func anyFieldFlag(cmd *cobra.Command) bool {
	for _, name := range fieldFlagNames {
		if fl := cmd.Flags().Lookup(name); fl != nil && fl.Changed {
			return true
		}
	}
	return false
}

// applyFieldFlags applies the field flags to the session: plain fields
// first, then --set pairs, then start, due and duration in that order.
func applyFieldFlags(cmd *cobra.Command, e *editor) error {
	flags := cmd.Flags()

	simple := []struct {
		flag  string
		field form.Field
	}{
		{"title", form.FieldTitle},
		{"status", form.FieldStatus},
		{"resource", form.FieldAssignedResource},
		{"document-name", form.FieldDocumentName},
	}
	for _, sf := range simple {
		if !flags.Changed(sf.flag) {
			continue
		}
		v, _ := flags.GetString(sf.flag)
		if err := e.set(sf.field, v); err != nil {
			return err
		}
	}

	pairs, _ := flags.GetStringArray("set")
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return clierr.Newf(clierr.InvalidInput, "invalid --set %q (expected FIELD=VALUE)", pair)
		}
		f, err := form.ParseField(strings.TrimSpace(name))
		if err != nil {
			return fieldError(err, form.Field(name))
		}
		if err := e.set(f, value); err != nil {
			return err
		}
	}

	if flags.Changed("start") {
		v, _ := flags.GetString("start")
		if err := task.ValidateDate("start date", v); err != nil {
			return err
		}
		if err := e.set(form.FieldStartDate, v); err != nil {
			return err
		}
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		if err := task.ValidateDate("due date", v); err != nil {
			return err
		}
		if err := e.set(form.FieldDueDate, v); err != nil {
			return err
		}
	}
	if flags.Changed("duration") {
		v, _ := flags.GetString("duration")
		if err := task.ValidateDuration(strings.TrimSpace(v)); err != nil {
			return err
		}
		if err := e.set(form.FieldDuration, v); err != nil {
			return err
		}
		if state, _ := e.s.State(); !sameDuration(state.Duration, strings.TrimSpace(v)) {
			e.issues = append(e.issues, form.Issue{
				Field:  form.FieldDuration,
				Input:  v,
				Reason: "was recomputed from the start and due dates",
			})
		}
	}
	return nil
}

func sameDuration(d *int, input string) bool {
	if input == "" {
		return d == nil
	}
	n, err := strconv.Atoi(input)
	return err == nil && d != nil && *d == n
}

// attachPatterns expands patterns and attaches the matching files.
func attachPatterns(e *editor, patterns []string, refs attach.Referencer) error {
	paths, err := attach.Expand(patterns)
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "expanding attachments: %v", err)
	}
	if len(paths) == 0 {
		return clierr.Newf(clierr.NoFilesMatched, "no files matched %s", strings.Join(patterns, ", ")).
			WithDetails(map[string]any{"patterns": patterns})
	}

	files, err := attach.Select(paths...)
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "selecting attachments: %v", err)
	}
	return e.s.Attach(files, refs)
}

// reportIssues logs every distinct issue and echoes it to stderr.
func reportIssues(issues []form.Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	logger := logging.Component("form")

	seen := make(map[string]bool, len(issues))
	lines := make([]string, 0, len(issues))
	for _, is := range issues {
		line := is.String()
		if seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
		logger.Warn().Str("field", string(is.Field)).Str("input", is.Input).Msg(is.Reason)
	}
	output.Issues(os.Stderr, lines)
	return lines
}

// submitter persists submitted records. Its submit method is the form's
// submit handler.
type submitter struct {
	cfg    *config.Config
	refs   attach.Resolver
	action string
	// prev is the record as it was on disk; nil for new records.
	prev *task.Task
	// body replaces the markdown notes when set.
	body *string

	saved *task.Task
}

func (s *submitter) submit(t task.Task) error {
	if s.body != nil {
		t.Body = *s.body
	}

	return filelock.WithBoard(s.cfg.Dir(), func() error {
		// Reload under the lock so concurrent creates see each other's next_id.
		cfg, err := config.Load(s.cfg.Dir())
		if err != nil {
			return err
		}

		isNew := t.IsNew()
		if isNew {
			t.ID = cfg.NextID
		}

		docs, err := attach.Archive(cfg.Dir(), cfg.DocumentsDir, t.ID, t.Documents, s.refs)
		if err != nil {
			return fmt.Errorf("archiving documents: %w", err)
		}
		t.Documents = docs

		oldStatus := ""
		if s.prev != nil {
			oldStatus = s.prev.Status
		}
		task.Stamp(&t, oldStatus, cfg, time.Now())

		var path string
		if isNew {
			path = filepath.Join(cfg.TasksPath(), task.GenerateFilename(t.ID, t.Title))
			if err := task.Write(path, &t); err != nil {
				return fmt.Errorf("writing task: %w", err)
			}
			cfg.NextID++
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
		} else {
			prevPath, prevTitle := t.File, t.Title
			if s.prev != nil {
				prevPath, prevTitle = s.prev.File, s.prev.Title
			}
			if path, err = writeAndRename(prevPath, &t, prevTitle); err != nil {
				return err
			}
		}
		t.File = path

		action := s.action
		if isNew {
			action = board.ActionCreate
		}
		board.LogMutation(cfg.Dir(), board.LogEntry{
			Timestamp:     t.Updated,
			Action:        action,
			TaskID:        t.ID,
			User:          t.LastModifiedBy,
			NeedsApproval: t.NeedsApproval,
			Detail:        t.Title,
		})

		s.saved = &t
		return nil
	})
}

// writeAndRename writes the task and renames the file if the title changed.
func writeAndRename(path string, t *task.Task, oldTitle string) (string, error) {
	newPath := path
	if t.Title != oldTitle {
		newPath = filepath.Join(filepath.Dir(path), task.GenerateFilename(t.ID, t.Title))
	}

	if err := task.Write(newPath, t); err != nil {
		return "", fmt.Errorf("writing task: %w", err)
	}

	if newPath != path {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("removing old file: %w", err)
		}
	}
	return newPath, nil
}

// outputSaved prints the result of a submission.
func outputSaved(verb string, t *task.Task, issues []string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.SubmitResult{Task: t, Issues: issues})
	}

	output.Messagef(os.Stdout, "%s task #%d: %s", verb, t.ID, t.Title)
	output.Messagef(os.Stdout, "  File: %s", t.File)
	output.Messagef(os.Stdout, "  Market: %s | Status: %s", orNone(t.MarketRef), t.Status)
	if t.StartDate != "" || t.DueDate != "" || t.Duration != nil {
		output.Messagef(os.Stdout, "  Schedule: %s -> %s (%s)",
			orNone(t.StartDate), orNone(t.DueDate), durationText(t.Duration))
	}
	if len(t.Documents) > 0 {
		output.Messagef(os.Stdout, "  Documents: %d", len(t.Documents))
	}
	if t.NeedsApproval {
		output.Messagef(os.Stdout, "  Needs approval (edited by %s)", t.LastModifiedBy)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

func durationText(d *int) string {
	switch {
	case d == nil:
		return "no duration"
	case *d == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", *d)
	}
}
