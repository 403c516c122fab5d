// Package task handles market task records and their markdown files.
package task

import (
	"slices"
	"time"
)

// Status values for a task. Display labels come from the board config.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Task is one work item of a market, parsed from a markdown file.
// During an editing session any field may still be empty.
type Task struct {
	ID               int        `yaml:"id" json:"id"`
	MarketRef        string     `yaml:"market_ref" json:"market_ref"`
	Title            string     `yaml:"title" json:"title"`
	Description      string     `yaml:"description,omitempty" json:"description,omitempty"`
	Status           string     `yaml:"status" json:"status"`
	Coordination     string     `yaml:"coordination,omitempty" json:"coordination,omitempty"`
	StartDate        string     `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	DueDate          string     `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	Duration         *int       `yaml:"duration,omitempty" json:"duration,omitempty"`
	AssignedResource string     `yaml:"assigned_resource,omitempty" json:"assigned_resource,omitempty"`
	DocumentName     string     `yaml:"document_name,omitempty" json:"document_name,omitempty"`
	Documents        []Document `yaml:"documents,omitempty" json:"documents"`
	NeedsApproval    bool       `yaml:"needs_approval" json:"needs_approval"`
	LastModifiedBy   string     `yaml:"last_modified_by,omitempty" json:"last_modified_by,omitempty"`
	Created          time.Time  `yaml:"created" json:"created"`
	Updated          time.Time  `yaml:"updated" json:"updated"`
	Started          *time.Time `yaml:"started,omitempty" json:"started,omitempty"`
	Completed        *time.Time `yaml:"completed,omitempty" json:"completed,omitempty"`

	// Body holds free-form markdown notes below the frontmatter (not in YAML).
	Body string `yaml:"-" json:"body,omitempty"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"file,omitempty"`
}

// Document describes a file attached to a task.
type Document struct {
	Name string `yaml:"name" json:"name"`
	Size int64  `yaml:"size" json:"size"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	URL  string `yaml:"url" json:"url"`
}

// Clone returns a deep copy of t. Mutating the copy never affects t.
func (t Task) Clone() Task {
	c := t
	if t.Duration != nil {
		d := *t.Duration
		c.Duration = &d
	}
	if t.Started != nil {
		s := *t.Started
		c.Started = &s
	}
	if t.Completed != nil {
		s := *t.Completed
		c.Completed = &s
	}
	c.Documents = slices.Clone(t.Documents)
	if c.Documents == nil {
		c.Documents = []Document{}
	}
	return c
}

// IsNew reports whether the task has not been assigned an identifier yet.
func (t Task) IsNew() bool {
	return t.ID == 0
}

// IntPtr returns a pointer to n, for setting Duration.
func IntPtr(n int) *int {
	return &n
}
