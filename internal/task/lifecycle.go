package task

import (
	"time"

	"github.com/twiced-technology-gmbh/marketboard/internal/config"
)

// UpdateTimestamps stamps Started and Completed for a status transition.
//   - Started is set on the first move out of the initial status and never overwritten.
//   - Completed is set on a move to the terminal status, which also sets Started if nil.
//   - Completed is cleared when a task leaves the terminal status.
func UpdateTimestamps(t *Task, oldStatus, newStatus string, cfg *config.Config, now time.Time) {
	if oldStatus == newStatus {
		return
	}

	if t.Started == nil && !cfg.IsInitialStatus(newStatus) {
		t.Started = &now
	}

	switch {
	case cfg.IsTerminalStatus(newStatus):
		t.Completed = &now
	case cfg.IsTerminalStatus(oldStatus):
		t.Completed = nil
	}
}

// Stamp prepares a task for writing: it sets Created on new tasks, bumps
// Updated, and applies lifecycle timestamps for the status change from
// oldStatus. Pass an empty oldStatus for a new task.
func Stamp(t *Task, oldStatus string, cfg *config.Config, now time.Time) {
	if t.Created.IsZero() {
		t.Created = now
	}
	t.Updated = now

	if oldStatus == "" {
		oldStatus = cfg.StatusNames()[0]
	}
	UpdateTimestamps(t, oldStatus, t.Status, cfg, now)
}
