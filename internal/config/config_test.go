package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultIsValid(t *testing.T) {
	cfg := NewDefault("markets")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"NOT_STARTED", "IN_PROGRESS", "DONE"}, cfg.StatusNames())
	assert.Equal(t, "UCP", cfg.Defaults.Coordination)
	assert.True(t, cfg.IsAdminRole("ADMIN_PRINCIPAL"))
	assert.True(t, cfg.IsAdminRole("ADMIN_SECONDARY"))
	assert.False(t, cfg.IsAdminRole("AGENT"))
}

func TestNewDefaultDoesNotShareSlices(t *testing.T) {
	a := NewDefault("a")
	a.Statuses[0].Label = "changed"
	a.AdminRoles[0] = "changed"

	b := NewDefault("b")
	assert.Equal(t, "Not started", b.Statuses[0].Label)
	assert.Equal(t, "ADMIN_PRINCIPAL", b.AdminRoles[0])
}

func TestStatusHelpers(t *testing.T) {
	cfg := NewDefault("x")
	assert.True(t, cfg.IsInitialStatus("NOT_STARTED"))
	assert.False(t, cfg.IsInitialStatus("DONE"))
	assert.True(t, cfg.IsTerminalStatus("DONE"))
	assert.Equal(t, 1, cfg.StatusIndex("IN_PROGRESS"))
	assert.Equal(t, -1, cfg.StatusIndex("nope"))
	assert.Equal(t, "In progress", cfg.StatusLabel("IN_PROGRESS"))
	assert.Equal(t, "nope", cfg.StatusLabel("nope"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no name", func(c *Config) { c.Board.Name = "" }},
		{"one status", func(c *Config) { c.Statuses = c.Statuses[:1] }},
		{"duplicate status", func(c *Config) { c.Statuses[1].Name = c.Statuses[0].Name }},
		{"unknown default", func(c *Config) { c.Defaults.Status = "OPEN" }},
		{"no coordination", func(c *Config) { c.Defaults.Coordination = "" }},
		{"duplicate admin", func(c *Config) { c.AdminRoles = []string{"A", "A"} }},
		{"bad next id", func(c *Config) { c.NextID = 0 }},
		{"no documents dir", func(c *Config) { c.DocumentsDir = "" }},
		{"old version", func(c *Config) { c.Version = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault("x")
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)

	cfg, err := Init(dir, "markets")
	require.NoError(t, err)
	assert.DirExists(t, cfg.TasksPath())
	assert.DirExists(t, cfg.DocumentsPath())

	cfg.Context.Market = "M-1"
	cfg.NextID = 5
	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "M-1", loaded.Context.Market)
	assert.Equal(t, 5, loaded.NextID)
	assert.Equal(t, cfg.Dir(), loaded.Dir())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	v1 := `version: 1
board:
  name: legacy
tasks_dir: tasks
statuses:
  - NOT_STARTED
  - IN_PROGRESS
  - DONE
defaults:
  status: NOT_STARTED
next_id: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultCoordination, cfg.Defaults.Coordination)
	assert.Equal(t, DefaultAdminRoles, cfg.AdminRoles)
	assert.Equal(t, DefaultDocumentsDir, cfg.DocumentsDir)
	assert.Equal(t, "Done", cfg.StatusLabel("DONE"))

	// The migrated file is written back.
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 3")
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("version: 99\nboard:\n  name: x\n"), 0o600))

	_, err := Load(dir)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	_, err := Init(filepath.Join(root, DefaultDir), "x")
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	found, err := FindDir(nested)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(root, DefaultDir))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	inside, err := FindDir(filepath.Join(root, DefaultDir, "tasks"))
	require.NoError(t, err)
	got, err = filepath.EvalSymlinks(inside)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
