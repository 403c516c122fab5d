package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/form"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

// stringAccessor is a writable accessor for a plain string field.
func stringAccessor(field func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *field(c) },
		set:      func(c *config.Config, v string) error { *field(c) = strings.TrimSpace(v); return nil },
		writable: true,
	}
}

// userAccessor is a writable accessor for a field of the saved acting user.
// The resulting user must pass the same checks as a user given by flags.
func userAccessor(field func(*config.UserConfig) *string) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *field(&c.Context.User) },
		set: func(c *config.Config, v string) error {
			next := c.Context.User
			*field(&next) = strings.TrimSpace(v)
			if next.ID != "" {
				if err := checkUser(form.User{ID: next.ID, Role: next.Role, Coordination: next.Coordination}); err != nil {
					return err
				}
			}
			c.Context.User = next
			return nil
		},
		writable: true,
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"board.name":        stringAccessor(func(c *config.Config) *string { return &c.Board.Name }),
		"board.description": stringAccessor(func(c *config.Config) *string { return &c.Board.Description }),
		"tasks_dir": {
			get: func(c *config.Config) any { return c.TasksDir },
		},
		"documents_dir": {
			get: func(c *config.Config) any { return c.DocumentsDir },
		},
		"statuses": {
			get: func(c *config.Config) any { return c.StatusNames() },
		},
		"defaults.status": {
			get: func(c *config.Config) any { return c.Defaults.Status },
			set: func(c *config.Config, v string) error {
				if config.IndexOf(c.StatusNames(), v) < 0 {
					return clierr.Newf(clierr.InvalidInput,
						"invalid default status %q; allowed: %s", v, strings.Join(c.StatusNames(), ", "))
				}
				c.Defaults.Status = v
				return nil
			},
			writable: true,
		},
		"defaults.coordination": stringAccessor(func(c *config.Config) *string { return &c.Defaults.Coordination }),
		"admin_roles": {
			get: func(c *config.Config) any { return c.AdminRoles },
			set: func(c *config.Config, v string) error {
				var roles []string
				for _, r := range strings.Split(v, ",") {
					if r = strings.TrimSpace(r); r != "" {
						roles = append(roles, r)
					}
				}
				c.AdminRoles = roles
				return nil
			},
			writable: true,
		},
		"context.market":            stringAccessor(func(c *config.Config) *string { return &c.Context.Market }),
		"context.user.id":           userAccessor(func(u *config.UserConfig) *string { return &u.ID }),
		"context.user.role":         userAccessor(func(u *config.UserConfig) *string { return &u.Role }),
		"context.user.coordination": userAccessor(func(u *config.UserConfig) *string { return &u.Coordination }),
		"next_id": {
			get: func(c *config.Config) any { return c.NextID },
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"tasks_dir",
		"documents_dir",
		"statuses",
		"defaults.status",
		"defaults.coordination",
		"admin_roles",
		"context.market",
		"context.user.id",
		"context.user.role",
		"context.user.coordination",
		"next_id",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-26s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	val := configAccessors()[key].get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": val})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(val))
	return nil
}

// setConfigValue applies one writable key and validates the result.
func setConfigValue(cfg *config.Config, key, value string) error {
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	case string:
		return orNone(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
