package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"courtside/internal/nba"
	"courtside/internal/report"
)

var exportOutput string

// exportCmd writes a player's career totals to a PDF.
var exportCmd = &cobra.Command{
	Use:   "export [player name]",
	Short: "Export a player's career totals to PDF",
	Long: `Resolves the player, fetches per-season career totals, and writes
a landscape PDF table.

Example:
  courtside export "LeBron James" -o lebron.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output PDF path (default: <player>.pdf)")
}

func runExport(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Export needs no LLM; build only the stats client.
	nbaClient := nba.NewClient(cfg.NBA.Season,
		nba.WithSeasonType(cfg.NBA.SeasonType),
		nba.WithRetry(cfg.NBA.Retries, cfg.NBABackoffUnit()),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), turnTimeout)
	defer cancel()

	player, err := nbaClient.ResolvePlayer(ctx, name)
	if err != nil {
		return err
	}

	seasons, err := nbaClient.CareerStats(ctx, player.ID)
	if err != nil {
		return err
	}
	if len(seasons) == 0 {
		return fmt.Errorf("no career data for %s", player.Name)
	}

	out := exportOutput
	if out == "" {
		out = strings.ReplaceAll(strings.ToLower(player.Name), " ", "_") + ".pdf"
	}

	if err := report.WriteCareerReport(out, player.Name, seasons); err != nil {
		return err
	}

	logger.Info("export complete",
		zap.String("player", player.Name),
		zap.Int("seasons", len(seasons)),
		zap.String("output", out))
	fmt.Printf("Wrote %d seasons for %s to %s\n", len(seasons), player.Name, out)
	return nil
}
