package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/marketboard/internal/attach"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// Options seed a new Session.
type Options struct {
	// Market is the currently selected market, used for new records only.
	Market string
	// User is the acting user.
	User User
	// Existing, when set, is edited instead of a new record. It is copied
	// verbatim; no reconciliation runs on it.
	Existing *task.Task
	// DefaultStatus is the status of a new record.
	DefaultStatus string
	// FallbackCoordination is used when the user has no coordination unit.
	FallbackCoordination string
	// AdminRoles never need approval for their edits.
	AdminRoles []string
}

// Session is one editing session over a single task record. Every update
// replaces the record with a fresh snapshot. A Session ends with Submit or
// Cancel; afterwards every method returns ErrClosed.
//
// A Session is not safe for concurrent use.
type Session struct {
	state      *task.Task
	user       User
	editing    bool
	adminRoles []string
	issues     []Issue
}

// New starts a session.
func New(opts Options) *Session {
	s := &Session{
		user:       opts.User,
		adminRoles: append([]string(nil), opts.AdminRoles...),
	}

	var t task.Task
	if opts.Existing != nil {
		t = opts.Existing.Clone()
		s.editing = !t.IsNew()
	} else {
		coordination := opts.User.Coordination
		if coordination == "" {
			coordination = opts.FallbackCoordination
		}
		t = task.Task{
			MarketRef:    opts.Market,
			Status:       opts.DefaultStatus,
			Coordination: coordination,
			Documents:    []task.Document{},
		}
	}
	s.state = &t
	return s
}

// Editing reports whether the session edits an existing record.
func (s *Session) Editing() bool {
	return s.editing
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	return s.state == nil
}

// State returns a copy of the current record.
func (s *Session) State() (task.Task, error) {
	if s.state == nil {
		return task.Task{}, ErrClosed
	}
	return s.state.Clone(), nil
}

// Issues returns the inputs the last Set could not use.
func (s *Session) Issues() []Issue {
	return append([]Issue(nil), s.issues...)
}

// Set replaces one field. Changing the start date, due date or duration
// runs one reconciliation pass.
func (s *Session) Set(f Field, value string) error {
	if s.state == nil {
		return ErrClosed
	}

	next := s.state.Clone()
	var issues []Issue

	switch f {
	case FieldMarketRef:
		return fmt.Errorf("%w: %s", ErrReadOnlyField, f)
	case FieldTitle:
		next.Title = value
	case FieldStatus:
		next.Status = value
	case FieldCoordination:
		next.Coordination = value
	case FieldStartDate:
		next.StartDate = value
	case FieldDueDate:
		next.DueDate = value
	case FieldDuration:
		d, issue := coerceDuration(value)
		next.Duration = d
		if issue != nil {
			issues = append(issues, *issue)
		}
	case FieldAssignedResource:
		next.AssignedResource = value
	case FieldDocumentName:
		next.DocumentName = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}

	if f.schedule() {
		var res Result
		next, res = Reconcile(next)
		issues = append(issues, res.Ignored...)
	}

	s.state = &next
	s.issues = issues
	return nil
}

// Attach appends one document per selected file, in order. Each document's
// URL is a preview reference from refs; releasing it is up to the caller.
func (s *Session) Attach(files []attach.Selected, refs attach.Referencer) error {
	if s.state == nil {
		return ErrClosed
	}

	next := s.state.Clone()
	for _, f := range files {
		next.Documents = append(next.Documents, task.Document{
			Name: f.Name,
			Size: f.Size,
			Type: f.Type,
			URL:  refs.CreateRef(f),
		})
	}
	s.state = &next
	return nil
}

// Submit assembles the record, ends the session and hands the record to
// fn. The error from fn is returned unchanged.
func (s *Session) Submit(fn SubmitFunc) error {
	if s.state == nil {
		return ErrClosed
	}
	payload := Assemble(*s.state, s.user, s.editing, s.adminRoles)
	s.close()
	return fn(payload)
}

// Cancel ends the session without submitting and then calls fn, if set.
func (s *Session) Cancel(fn func()) error {
	if s.state == nil {
		return ErrClosed
	}
	s.close()
	if fn != nil {
		fn()
	}
	return nil
}

func (s *Session) close() {
	s.state = nil
	s.issues = nil
}

// coerceDuration turns user input into a duration. Empty input clears it;
// input that is not a non-negative whole number clears it and is reported.
func coerceDuration(value string) (*int, *Issue) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, &Issue{Field: FieldDuration, Input: value, Reason: "is not a whole number of days"}
	}
	if n < 0 {
		return nil, &Issue{Field: FieldDuration, Input: value, Reason: "is negative"}
	}
	return &n, nil
}
