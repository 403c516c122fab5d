package form

import (
	"slices"

	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// Assemble builds the payload handed to the submit handler:
//   - NeedsApproval is proposed for edits of an existing record by a user
//     whose role is not an admin role. Enforcement is up to the receiver.
//   - LastModifiedBy is the acting user.
//   - Description mirrors the title, replacing whatever it held.
//
// Nothing is validated; incomplete records pass through as they are.
func Assemble(t task.Task, u User, editing bool, adminRoles []string) task.Task {
	out := t.Clone()
	out.NeedsApproval = editing && !slices.Contains(adminRoles, u.Role)
	out.LastModifiedBy = u.ID
	out.Description = out.Title
	return out
}
