package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/marketboard/internal/attach"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

var adminRoles = []string{"ADMIN_PRINCIPAL", "ADMIN_SECONDARY"}

func newSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.DefaultStatus == "" {
		opts.DefaultStatus = task.StatusNotStarted
	}
	if opts.FallbackCoordination == "" {
		opts.FallbackCoordination = "UCP"
	}
	if opts.AdminRoles == nil {
		opts.AdminRoles = adminRoles
	}
	return New(opts)
}

func mustState(t *testing.T, s *Session) task.Task {
	t.Helper()
	st, err := s.State()
	require.NoError(t, err)
	return st
}

func set(t *testing.T, s *Session, f Field, v string) {
	t.Helper()
	require.NoError(t, s.Set(f, v))
}

func TestNewSeedsDefaults(t *testing.T) {
	s := newSession(t, Options{Market: "M-12", User: User{ID: "u1", Role: "AGENT", Coordination: "DGTP"}})
	st := mustState(t, s)

	assert.Equal(t, "M-12", st.MarketRef)
	assert.Equal(t, task.StatusNotStarted, st.Status)
	assert.Equal(t, "DGTP", st.Coordination)
	assert.Empty(t, st.Title)
	assert.Empty(t, st.StartDate)
	assert.Empty(t, st.DueDate)
	assert.Nil(t, st.Duration)
	assert.NotNil(t, st.Documents)
	assert.Empty(t, st.Documents)
	assert.Zero(t, st.ID)
	assert.False(t, s.Editing())
}

func TestNewFallsBackToConfiguredCoordination(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}, FallbackCoordination: "CENTRAL"})
	st := mustState(t, s)
	assert.Equal(t, "CENTRAL", st.Coordination)
	assert.Empty(t, st.MarketRef)
}

func TestNewUsesExistingVerbatim(t *testing.T) {
	existing := &task.Task{
		ID:          42,
		MarketRef:   "M-1",
		Title:       "Survey",
		Description: "older text",
		Status:      task.StatusInProgress,
		StartDate:   "2024-01-01",
		DueDate:     "2024-01-10",
		Duration:    task.IntPtr(3), // inconsistent on purpose
	}
	s := newSession(t, Options{Market: "M-OTHER", User: User{ID: "u1"}, Existing: existing})
	st := mustState(t, s)

	assert.Equal(t, "M-1", st.MarketRef)
	assert.Equal(t, 3, *st.Duration, "no reconciliation on seed")
	assert.True(t, s.Editing())

	set(t, s, FieldTitle, "Survey v2")
	assert.Equal(t, "Survey", existing.Title, "existing record is not mutated")
}

func TestExistingWithoutIDIsNotEditing(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}, Existing: &task.Task{Title: "draft"}})
	assert.False(t, s.Editing())
}

func TestSetSnapshots(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	before := mustState(t, s)

	set(t, s, FieldTitle, "Kickoff")
	set(t, s, FieldStatus, task.StatusInProgress)
	set(t, s, FieldCoordination, "DGTP")
	set(t, s, FieldAssignedResource, "Team A")
	set(t, s, FieldDocumentName, "Minutes")

	after := mustState(t, s)
	assert.Empty(t, before.Title)
	assert.Equal(t, "Kickoff", after.Title)
	assert.Equal(t, task.StatusInProgress, after.Status)
	assert.Equal(t, "DGTP", after.Coordination)
	assert.Equal(t, "Team A", after.AssignedResource)
	assert.Equal(t, "Minutes", after.DocumentName)

	after.Title = "mutated copy"
	assert.Equal(t, "Kickoff", mustState(t, s).Title)
}

func TestSetRejectsReadOnlyAndUnknown(t *testing.T) {
	s := newSession(t, Options{Market: "M-1", User: User{ID: "u1"}})

	require.ErrorIs(t, s.Set(FieldMarketRef, "M-2"), ErrReadOnlyField)
	require.ErrorIs(t, s.Set(Field("priority"), "high"), ErrUnknownField)
	assert.Equal(t, "M-1", mustState(t, s).MarketRef)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("due_date")
	require.NoError(t, err)
	assert.Equal(t, FieldDueDate, f)

	_, err = ParseField("priority")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestScenarioStartAndDue(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	set(t, s, FieldStartDate, "2024-01-01")
	set(t, s, FieldDueDate, "2024-01-10")

	st := mustState(t, s)
	require.NotNil(t, st.Duration)
	assert.Equal(t, 9, *st.Duration)
}

func TestScenarioStartAndDuration(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	set(t, s, FieldStartDate, "2024-01-01")
	set(t, s, FieldDuration, "5")

	assert.Equal(t, "2024-01-06", mustState(t, s).DueDate)
}

func TestScenarioDueAndDuration(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	set(t, s, FieldDueDate, "2024-01-10")
	set(t, s, FieldDuration, "5")

	assert.Equal(t, "2024-01-05", mustState(t, s).StartDate)
}

func TestStartAndDueOverrideDurationEdit(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	set(t, s, FieldStartDate, "2024-01-01")
	set(t, s, FieldDueDate, "2024-01-10")
	set(t, s, FieldDuration, "2")

	st := mustState(t, s)
	assert.Equal(t, 9, *st.Duration)
	assert.Equal(t, "2024-01-10", st.DueDate)
}

func TestZeroDurationIsNotUnset(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	set(t, s, FieldDuration, "0")
	set(t, s, FieldStartDate, "2024-03-15")

	st := mustState(t, s)
	assert.Equal(t, "2024-03-15", st.DueDate)
	assert.Equal(t, 0, *st.Duration)
}

func TestSingleFieldDerivesNothing(t *testing.T) {
	for _, tc := range []struct {
		f Field
		v string
	}{
		{FieldStartDate, "2024-01-01"},
		{FieldDueDate, "2024-01-10"},
		{FieldDuration, "4"},
	} {
		t.Run(string(tc.f), func(t *testing.T) {
			s := newSession(t, Options{User: User{ID: "u1"}})
			set(t, s, tc.f, tc.v)
			st := mustState(t, s)

			if tc.f != FieldStartDate {
				assert.Empty(t, st.StartDate)
			}
			if tc.f != FieldDueDate {
				assert.Empty(t, st.DueDate)
			}
			if tc.f != FieldDuration {
				assert.Nil(t, st.Duration)
			}
			assert.Empty(t, s.Issues())
		})
	}
}

func TestDurationCoercion(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})

	set(t, s, FieldDuration, " 7 ")
	assert.Equal(t, 7, *mustState(t, s).Duration)

	set(t, s, FieldDuration, "abc")
	assert.Nil(t, mustState(t, s).Duration)
	require.Len(t, s.Issues(), 1)
	assert.Equal(t, FieldDuration, s.Issues()[0].Field)

	set(t, s, FieldDuration, "-3")
	assert.Nil(t, mustState(t, s).Duration)
	require.Len(t, s.Issues(), 1)

	set(t, s, FieldDuration, "")
	assert.Nil(t, mustState(t, s).Duration)
	assert.Empty(t, s.Issues())
}

func TestMalformedDateIsIgnoredAndReported(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	set(t, s, FieldStartDate, "01/02/2024")
	require.Len(t, s.Issues(), 1)
	assert.Equal(t, FieldStartDate, s.Issues()[0].Field)
	assert.Contains(t, s.Issues()[0].String(), "01/02/2024")

	set(t, s, FieldDueDate, "2024-01-10")
	set(t, s, FieldDuration, "5")

	st := mustState(t, s)
	assert.Equal(t, "2024-01-05", st.StartDate, "malformed start is overwritten by the derived value")
	require.Len(t, s.Issues(), 1, "the pass that overwrote it still reports the ignored input")

	set(t, s, FieldDuration, "6")
	assert.Empty(t, s.Issues())
	assert.Equal(t, 5, *mustState(t, s).Duration, "start and due now both set")
}

func TestAssembleApprovalMatrix(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		editing bool
		want    bool
	}{
		{"admin principal editing", "ADMIN_PRINCIPAL", true, false},
		{"admin secondary editing", "ADMIN_SECONDARY", true, false},
		{"other role editing", "AGENT", true, true},
		{"no role editing", "", true, true},
		{"other role creating", "AGENT", false, false},
		{"admin creating", "ADMIN_PRINCIPAL", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assemble(task.Task{ID: 42, Title: "x"}, User{ID: "u9", Role: tt.role}, tt.editing, adminRoles)
			assert.Equal(t, tt.want, got.NeedsApproval)
			assert.Equal(t, "u9", got.LastModifiedBy)
		})
	}
}

func TestSubmitScenarios(t *testing.T) {
	existing := func() *task.Task { return &task.Task{ID: 42, Title: "Audit", Description: "stale"} }

	tests := []struct {
		name     string
		role     string
		existing *task.Task
		want     bool
	}{
		{"admin edits id 42", "ADMIN_PRINCIPAL", existing(), false},
		{"non-admin edits id 42", "AGENT", existing(), true},
		{"non-admin creates", "AGENT", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, Options{User: User{ID: "u5", Role: tt.role}, Existing: tt.existing})
			set(t, s, FieldTitle, "Audit final")

			var got task.Task
			require.NoError(t, s.Submit(func(p task.Task) error {
				got = p
				return nil
			}))
			assert.Equal(t, tt.want, got.NeedsApproval)
			assert.Equal(t, "u5", got.LastModifiedBy)
			assert.Equal(t, "Audit final", got.Description)
		})
	}
}

func TestSubmitPassesIncompleteRecord(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	var called bool
	require.NoError(t, s.Submit(func(p task.Task) error {
		called = true
		assert.Empty(t, p.Title)
		assert.Empty(t, p.Description)
		return nil
	}))
	assert.True(t, called)
}

func TestSubmitReturnsHandlerError(t *testing.T) {
	boom := errors.New("disk full")
	s := newSession(t, Options{User: User{ID: "u1"}})
	err := s.Submit(func(task.Task) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.True(t, s.Closed(), "a failed submit still ends the session")
}

func TestClosedSession(t *testing.T) {
	s := newSession(t, Options{User: User{ID: "u1"}})
	cancelled := 0
	require.NoError(t, s.Cancel(func() { cancelled++ }))
	assert.Equal(t, 1, cancelled)

	_, err := s.State()
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Set(FieldTitle, "x"), ErrClosed)
	require.ErrorIs(t, s.Attach(nil, attach.NewRegistry()), ErrClosed)
	require.ErrorIs(t, s.Submit(func(task.Task) error { return nil }), ErrClosed)
	require.ErrorIs(t, s.Cancel(nil), ErrClosed)
	assert.Equal(t, 1, cancelled)
}

func TestAttachAppendsInOrder(t *testing.T) {
	reg := attach.NewRegistry()
	s := newSession(t, Options{User: User{ID: "u1"}, Existing: &task.Task{
		ID:        3,
		Documents: []task.Document{{Name: "kept.pdf", URL: "documents/3/kept.pdf"}},
	}})

	files := []attach.Selected{
		{Name: "a.pdf", Path: "/x/a.pdf", Size: 10, Type: "application/pdf"},
		{Name: "b.png", Path: "/x/b.png", Size: 20, Type: "image/png"},
		{Name: "a.pdf", Path: "/x/a.pdf", Size: 10, Type: "application/pdf"},
	}
	require.NoError(t, s.Attach(files, reg))

	docs := mustState(t, s).Documents
	require.Len(t, docs, 4)
	assert.Equal(t, "kept.pdf", docs[0].Name)
	for i, f := range files {
		d := docs[i+1]
		assert.Equal(t, f.Name, d.Name)
		assert.Equal(t, f.Size, d.Size)
		assert.Equal(t, f.Type, d.Type)
		p, ok := reg.Resolve(d.URL)
		require.True(t, ok)
		assert.Equal(t, f.Path, p)
	}
	assert.Equal(t, 3, reg.Len())
}
