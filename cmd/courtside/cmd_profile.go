package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"courtside/internal/analysis"
	"courtside/internal/llm"
	"courtside/internal/report"
)

// profileCmd answers questions against a PDF scouting profile instead
// of live stats.
var profileCmd = &cobra.Command{
	Use:   "profile [profile.pdf]",
	Short: "Chat about a PDF scouting profile",
	Long: `Loads a PDF profile and answers questions grounded in its text.
Reads questions from stdin, one per line, until EOF.

Example:
  courtside profile scouting/curry.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := llm.NewClientFromConfig(cfg)
	if err != nil {
		return err
	}

	profileText, err := report.ReadProfile(args[0])
	if err != nil {
		return err
	}
	logger.Info("profile loaded", zap.String("path", args[0]), zap.Int("chars", len(profileText)))

	analyst := analysis.NewProfileAnalyst(client, analysis.NewEvaluator(client), profileText)

	var history []analysis.Turn
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Profile loaded. Ask away (Ctrl-D to quit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), turnTimeout)
		answer := analyst.Respond(ctx, question, history)
		cancel()

		fmt.Println(answer)
		history = append(history,
			analysis.Turn{Role: "user", Content: question},
			analysis.Turn{Role: "assistant", Content: answer},
		)
	}
	return scanner.Err()
}
