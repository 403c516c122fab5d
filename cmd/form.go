package cmd

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/marketboard/internal/form"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// errCancelled is returned when the user aborts the interactive form.
var errCancelled = errors.New("cancelled")

// stdinIsTerminal reports whether the interactive form can be shown.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// formValues are the editable fields as shown in the interactive form.
type formValues struct {
	title        string
	status       string
	coordination string
	resource     string
	documentName string
	start        string
	due          string
	duration     string
}

func valuesOf(t task.Task) formValues {
	v := formValues{
		title:        t.Title,
		status:       t.Status,
		coordination: t.Coordination,
		resource:     t.AssignedResource,
		documentName: t.DocumentName,
		start:        t.StartDate,
		due:          t.DueDate,
	}
	if t.Duration != nil {
		v.duration = strconv.Itoa(*t.Duration)
	}
	return v
}

// runInteractive shows the huh form seeded with the session state and
// applies every changed field to the session.
func runInteractive(e *editor) error {
	state, err := e.s.State()
	if err != nil {
		return err
	}
	before := valuesOf(state)
	v := before

	statuses := make([]huh.Option[string], 0, len(e.cfg.Statuses))
	for _, s := range e.cfg.Statuses {
		statuses = append(statuses, huh.NewOption(e.cfg.StatusLabel(s.Name), s.Name))
	}

	market := state.MarketRef
	if market == "" {
		market = "(no market selected)"
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Market").
				Description(market),
			huh.NewInput().
				Title("Title").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}).
				Value(&v.title),
			huh.NewSelect[string]().
				Title("Status").
				Options(statuses...).
				Value(&v.status),
			huh.NewInput().
				Title("Coordination").
				Value(&v.coordination),
			huh.NewInput().
				Title("Assigned resource").
				Value(&v.resource),
			huh.NewInput().
				Title("Document name").
				Value(&v.documentName),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Validate(func(s string) error { return task.ValidateDate("start date", strings.TrimSpace(s)) }).
				Value(&v.start),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD").
				Validate(func(s string) error { return task.ValidateDate("due date", strings.TrimSpace(s)) }).
				Value(&v.due),
			huh.NewInput().
				Title("Duration (days)").
				Validate(func(s string) error { return task.ValidateDuration(strings.TrimSpace(s)) }).
				Value(&v.duration),
		).Description("Fill in two of start, due and duration; the third is derived."),
	).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}
	if err != nil {
		return err
	}

	return applyValues(e, before, v)
}

// applyValues sets every field whose value changed, schedule fields last
// and in start, due, duration order.
func applyValues(e *editor, before, after formValues) error {
	changes := []struct {
		field form.Field
		old   string
		new   string
	}{
		{form.FieldTitle, before.title, after.title},
		{form.FieldStatus, before.status, after.status},
		{form.FieldCoordination, before.coordination, after.coordination},
		{form.FieldAssignedResource, before.resource, after.resource},
		{form.FieldDocumentName, before.documentName, after.documentName},
		{form.FieldStartDate, before.start, strings.TrimSpace(after.start)},
		{form.FieldDueDate, before.due, strings.TrimSpace(after.due)},
		{form.FieldDuration, before.duration, strings.TrimSpace(after.duration)},
	}
	for _, c := range changes {
		if c.old == c.new {
			continue
		}
		if err := e.set(c.field, c.new); err != nil {
			return err
		}
	}
	return nil
}
