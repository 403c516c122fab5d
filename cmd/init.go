package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new board",
	Long:  `Creates a board directory with config.yml and the tasks/ and documents/ subdirectories.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().StringSlice("statuses", nil, "comma-separated list of statuses, first is the initial, last the terminal status")
	initCmd.Flags().String("default-coordination", "", "coordination unit for users without one (default "+config.DefaultCoordination+")")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "board already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.SetDir(absDir)

	if statuses, _ := cmd.Flags().GetStringSlice("statuses"); len(statuses) > 0 {
		sc := make([]config.StatusConfig, len(statuses))
		for i, s := range statuses {
			sc[i] = config.StatusConfig{Name: s}
		}
		cfg.Statuses = sc
		cfg.Defaults.Status = statuses[0]
	}
	if v, _ := cmd.Flags().GetString("default-coordination"); v != "" {
		cfg.Defaults.Coordination = v
	}
	if flagMarket != "" {
		cfg.Context.Market = flagMarket
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":    "initialized",
			"dir":       absDir,
			"name":      name,
			"config":    cfg.ConfigPath(),
			"tasks":     cfg.TasksPath(),
			"documents": cfg.DocumentsPath(),
			"columns":   strings.Join(cfg.StatusNames(), ","),
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:    %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:     %s", cfg.TasksPath())
	output.Messagef(os.Stdout, "  Documents: %s", cfg.DocumentsPath())
	output.Messagef(os.Stdout, "  Columns:   %s", strings.Join(cfg.StatusNames(), ", "))
	output.Messagef(os.Stdout, "  Hint:      select a market with: marketboard use MARKET")
	return nil
}
