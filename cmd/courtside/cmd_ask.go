package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// askCmd answers one question and exits.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single over/under question",
	Long: `Runs one question through the full pipeline and prints the answer.

Example:
  courtside ask "LeBron over 25.5 points"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	logger.Info("ask", zap.String("question", question))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), turnTimeout)
	defer cancel()

	answer := p.orchestrator.Respond(ctx, question, nil)
	fmt.Println(answer)
	return nil
}
