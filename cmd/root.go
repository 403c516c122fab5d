// Package cmd implements the marketboard CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/config"
	"github.com/twiced-technology-gmbh/marketboard/internal/logging"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Environment variables read by the CLI.
const (
	envUser         = "MARKETBOARD_USER"
	envRole         = "MARKETBOARD_ROLE"
	envCoordination = "MARKETBOARD_COORDINATION"
	envMarket       = "MARKETBOARD_MARKET"
	envLogLevel     = "MARKETBOARD_LOG_LEVEL"
)

// Global flags.
var (
	flagJSON         bool
	flagTable        bool
	flagCompact      bool
	flagDir          string
	flagNoColor      bool
	flagLogLevel     string
	flagLogFile      string
	flagUser         string
	flagRole         string
	flagCoordination string
	flagMarket       string
)

// closeLog releases the log file opened in PersistentPreRunE.
var closeLog = func() {}

var rootCmd = &cobra.Command{
	Use:   "marketboard",
	Short: "Plan market tasks from the terminal",
	Long: `marketboard keeps the tasks of a market plan as markdown files with YAML
frontmatter. Create and edit tasks with a form that keeps start date, due date
and duration consistent, attach documents, and follow progress on a live board.

Run marketboard without arguments to open the board.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	RunE:              runTUI,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "output as JSON")
	pf.BoolVar(&flagTable, "table", false, "output as table")
	pf.BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	pf.BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	pf.StringVar(&flagDir, "dir", "", "path to the board directory")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable color output")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFile, "log-file", "", "write JSON logs to this file instead of stderr")
	pf.StringVar(&flagUser, "user", "", "acting user ID (env "+envUser+")")
	pf.StringVar(&flagRole, "role", "", "acting user role (env "+envRole+")")
	pf.StringVar(&flagCoordination, "coordination", "", "acting user coordination unit (env "+envCoordination+")")
	pf.StringVar(&flagMarket, "market", "", "market context (env "+envMarket+")")
}

func setup(_ *cobra.Command, _ []string) error {
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		output.DisableColor()
	}

	level := flagLogLevel
	if level == "" {
		level = os.Getenv(envLogLevel)
	}
	closer, err := logging.Setup(level, flagLogFile)
	if closer != nil {
		closeLog = closer
	}
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "setting up logging: %v", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	closeLog()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv(output.EnvOutput) == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the absolute path to the board directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// loadConfig finds and loads the board config.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.Newf(clierr.BoardNotFound, "no board in %s; run marketboard init", dir).
			WithDetails(map[string]any{"dir": dir})
	}
	return cfg, err
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings reports task files that could not be read.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		log.Debug().Str("file", w.File).Err(w.Err).Msg("skipping malformed task file")
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed file %s: %v\n", w.File, w.Err)
	}
}
