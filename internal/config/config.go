package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no board found (run 'marketboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version      int            `yaml:"version"`
	Board        BoardConfig    `yaml:"board"`
	TasksDir     string         `yaml:"tasks_dir"`
	DocumentsDir string         `yaml:"documents_dir"`
	Statuses     []StatusConfig `yaml:"statuses"`
	Defaults     DefaultsConfig `yaml:"defaults"`
	AdminRoles   []string       `yaml:"admin_roles"`
	Context      ContextConfig  `yaml:"context,omitempty"`
	NextID       int            `yaml:"next_id"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Status       string `yaml:"status"`
	Coordination string `yaml:"coordination"`
}

// ContextConfig is the persisted working context: the selected market and
// the acting user. Flags and environment variables override it per command.
type ContextConfig struct {
	Market string     `yaml:"market,omitempty"`
	User   UserConfig `yaml:"user,omitempty"`
}

// UserConfig identifies the acting user.
type UserConfig struct {
	ID           string `yaml:"id,omitempty"`
	Role         string `yaml:"role,omitempty"`
	Coordination string `yaml:"coordination,omitempty"`
}

// StatusConfig defines a status value and its display label.
type StatusConfig struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// UnmarshalYAML allows StatusConfig to be parsed from either a plain string
// (v1 format: "NOT_STARTED") or a mapping ({name: NOT_STARTED, label: ...}).
func (s *StatusConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Name = value.Value
		return nil
	}
	type plain StatusConfig
	return value.Decode((*plain)(s))
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// DocumentsPath returns the absolute path to the archived documents directory.
func (c *Config) DocumentsPath() string {
	return filepath.Join(c.dir, c.DocumentsDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:      CurrentVersion,
		Board:        BoardConfig{Name: name},
		TasksDir:     DefaultTasksDir,
		DocumentsDir: DefaultDocumentsDir,
		Statuses:     append([]StatusConfig{}, DefaultStatuses...),
		AdminRoles:   append([]string{}, DefaultAdminRoles...),
		Defaults: DefaultsConfig{
			Status:       DefaultStatus,
			Coordination: DefaultCoordination,
		},
		NextID: 1,
	}
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// StatusNames returns the ordered list of status name strings.
func (c *Config) StatusNames() []string {
	names := make([]string, len(c.Statuses))
	for i, s := range c.Statuses {
		names[i] = s.Name
	}
	return names
}

// StatusLabel returns the display label for a status, falling back to the
// status name when no label is configured.
func (c *Config) StatusLabel(status string) string {
	for _, s := range c.Statuses {
		if s.Name == status && s.Label != "" {
			return s.Label
		}
	}
	return status
}

// IsInitialStatus reports whether s is the first configured status.
func (c *Config) IsInitialStatus(s string) bool {
	names := c.StatusNames()
	return len(names) > 0 && names[0] == s
}

// IsTerminalStatus reports whether s is the last configured status.
func (c *Config) IsTerminalStatus(s string) bool {
	names := c.StatusNames()
	return len(names) > 0 && names[len(names)-1] == s
}

// StatusIndex returns the index of a status in the configured order, or -1.
func (c *Config) StatusIndex(status string) int {
	return IndexOf(c.StatusNames(), status)
}

// IsAdminRole reports whether role is one of the configured admin roles.
func (c *Config) IsAdminRole(role string) bool {
	return slices.Contains(c.AdminRoles, role)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if c.DocumentsDir == "" {
		return fmt.Errorf("%w: documents_dir is required", ErrInvalid)
	}
	names := c.StatusNames()
	if len(names) < 2 { //nolint:mnd // a lifecycle needs a start and an end
		return fmt.Errorf("%w: at least 2 statuses are required", ErrInvalid)
	}
	if hasDuplicates(names) {
		return fmt.Errorf("%w: statuses contain duplicates", ErrInvalid)
	}
	if !contains(names, c.Defaults.Status) {
		return fmt.Errorf("%w: default status %q not in statuses list", ErrInvalid, c.Defaults.Status)
	}
	if c.Defaults.Coordination == "" {
		return fmt.Errorf("%w: defaults.coordination is required", ErrInvalid)
	}
	if hasDuplicates(c.AdminRoles) {
		return fmt.Errorf("%w: admin_roles contain duplicates", ErrInvalid)
	}
	if c.NextID < 1 {
		return fmt.Errorf("%w: next_id must be >= 1", ErrInvalid)
	}
	return nil
}

// Init creates a new board in the given directory with default settings.
// It creates the board directory, the tasks and documents subdirectories,
// and the config file.
func Init(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// EnsureDirs creates the tasks and documents directories if missing.
func (c *Config) EnsureDirs() error {
	const dirMode = 0o750
	if err := os.MkdirAll(c.TasksPath(), dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	if err := os.MkdirAll(c.DocumentsPath(), dirMode); err != nil {
		return fmt.Errorf("creating documents directory: %w", err)
	}
	return nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no board found (run 'marketboard init' to create one)")
		}
		dir = parent
	}
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
