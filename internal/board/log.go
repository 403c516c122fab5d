package board

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/marketboard/internal/logging"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000 // truncate oldest entries when log exceeds this size
)

// Activity actions.
const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionAttach = "attach"
)

// LogEntry represents a single activity log entry.
type LogEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	TaskID        int       `json:"task_id"`
	User          string    `json:"user,omitempty"`
	NeedsApproval bool      `json:"needs_approval"`
	Detail        string    `json:"detail,omitempty"`
}

// AppendLog appends a log entry to the activity log file.
// If the log exceeds maxLogEntries, the oldest entries are truncated.
func AppendLog(boardDir string, entry LogEntry) error {
	path := filepath.Join(boardDir, logFileName)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from trusted board dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing log entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	return truncateLogIfNeeded(path)
}

// ReadLog returns the log entries for taskID (all tasks when taskID is 0),
// oldest first. A missing log yields no entries.
func ReadLog(boardDir string, taskID int) ([]LogEntry, error) {
	f, err := os.Open(filepath.Join(boardDir, logFileName)) //nolint:gosec // trusted path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if taskID == 0 || e.TaskID == taskID {
			entries = append(entries, e)
		}
	}
	return entries, scanner.Err()
}

// truncateLogIfNeeded rewrites the log keeping only the most recent
// maxLogEntries lines.
func truncateLogIfNeeded(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) <= maxLogEntries {
		return nil
	}
	lines = lines[len(lines)-maxLogEntries:]
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), logFileMode)
}

// LogMutation appends an activity log entry. A failure is logged and
// otherwise ignored: the task itself is already saved.
func LogMutation(boardDir string, entry LogEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := AppendLog(boardDir, entry); err != nil {
		l := logging.Component("activity")
		l.Warn().Err(err).Int("task", entry.TaskID).Msg("activity log not written")
	}
}
