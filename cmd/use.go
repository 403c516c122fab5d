package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/marketboard/internal/clierr"
	"github.com/twiced-technology-gmbh/marketboard/internal/output"
)

var useCmd = &cobra.Command{
	Use:   "use [MARKET]",
	Short: "Select the current market",
	Long: `Saves the market context used by create, list, board and tui.
Without an argument, prints the current market. Use --clear to unset it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

func init() {
	useCmd.Flags().Bool("clear", false, "clear the saved market")
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clearMarket, _ := cmd.Flags().GetBool("clear")
	switch {
	case clearMarket && len(args) > 0:
		return clierr.New(clierr.InvalidInput, "provide a market or --clear, not both")
	case clearMarket:
		cfg.Context.Market = ""
	case len(args) == 0:
		market := resolveMarket(cfg)
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, map[string]string{"market": market})
		}
		fmt.Fprintln(os.Stdout, orNone(market))
		return nil
	default:
		market := strings.TrimSpace(args[0])
		if market == "" {
			return clierr.New(clierr.InvalidInput, "market must not be empty")
		}
		cfg.Context.Market = market
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"market": cfg.Context.Market})
	}
	if cfg.Context.Market == "" {
		output.Messagef(os.Stdout, "Cleared market context")
		return nil
	}
	output.Messagef(os.Stdout, "Using market %s", cfg.Context.Market)
	return nil
}
