package task

import (
	"slices"
	"strconv"

	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/date"
)

// ValidateStatus checks that a status is in the allowed list.
func ValidateStatus(status string, allowed []string) error {
	if slices.Contains(allowed, status) {
		return nil
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", status).
		WithDetails(map[string]any{
			"status":  status,
			"allowed": allowed,
		})
}

// ValidateDate checks that input is empty or a YYYY-MM-DD date.
func ValidateDate(field, input string) error {
	if input == "" {
		return nil
	}
	if _, err := date.Parse(input); err != nil {
		return clierr.Newf(clierr.InvalidDate, "invalid %s: %v", field, err).
			WithDetails(map[string]any{
				"field": field,
				"input": input,
			})
	}
	return nil
}

// ValidateDuration checks that input is empty or a non-negative whole number of days.
func ValidateDuration(input string) error {
	if input == "" {
		return nil
	}
	if n, err := strconv.Atoi(input); err != nil || n < 0 {
		return clierr.Newf(clierr.InvalidDuration,
			"invalid duration %q: expected a whole number of days >= 0", input).
			WithDetails(map[string]any{"input": input})
	}
	return nil
}

// ParseID parses a task ID argument.
func ParseID(input string) (int, error) {
	id, err := strconv.Atoi(input)
	if err != nil || id < 1 {
		return 0, ValidateTaskID(input)
	}
	return id, nil
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}
