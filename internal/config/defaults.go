// Package config handles marketboard board configuration.
package config

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "marketboard"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultDocumentsDir is the default subdirectory for archived attachments.
	DefaultDocumentsDir = "documents"
	// DefaultStatus is the default status for new tasks.
	DefaultStatus = "NOT_STARTED"
	// DefaultCoordination is the fallback coordination unit for users without one.
	DefaultCoordination = "UCP"

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// Default slice values for a new board (slices cannot be const).
var (
	DefaultStatuses = []StatusConfig{
		{Name: "NOT_STARTED", Label: "Not started"},
		{Name: "IN_PROGRESS", Label: "In progress"},
		{Name: "DONE", Label: "Done"},
	}

	// DefaultAdminRoles are the roles whose edits never need approval.
	DefaultAdminRoles = []string{
		"ADMIN_PRINCIPAL",
		"ADMIN_SECONDARY",
	}
)
