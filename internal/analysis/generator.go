package analysis

import (
	"context"
	"fmt"
	"strings"

	"courtside/internal/intent"
	"courtside/internal/llm"
	"courtside/internal/logging"
	"courtside/internal/nba"
)

const analystSystemPrompt = `You are a sharp NBA analyst. Ground every claim in the numbers provided, weigh recent form against the matchup, and finish with a clear over/under lean. Keep it under 200 words.`

// regenUnavailable is returned when the conditioned second attempt
// itself fails. The turn still ends with a framed answer.
const regenUnavailable = "Analysis is unavailable right now. Please try again in a moment."

// Generator produces the natural-language analysis for a turn.
type Generator struct {
	client llm.Client
}

// NewGenerator builds a generator on the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces a framed answer for the query and fetched data.
// Never fails: a generation error degrades to the deterministic
// numeric summary.
func (g *Generator) Generate(ctx context.Context, q intent.StructuredQuery, res nba.FetchResult) string {
	prompt := BuildContext(q, res)

	body, err := g.client.CompleteWithSystem(ctx, analystSystemPrompt, prompt)
	if err != nil {
		logging.Analysis("generation failed, using numeric fallback: %v", err)
		body = fallbackSummary(q, res.Player.Name, res.Entries)
	}
	return frame(res.Player.Name, res.Matchup.Opponent, body, res.Entries)
}

// Regenerate runs the one-shot retry conditioned on the judge's
// feedback. No fallback here; if the call fails the turn ends with a
// fixed apology.
func (g *Generator) Regenerate(ctx context.Context, q intent.StructuredQuery, res nba.FetchResult, feedback string) string {
	prompt := BuildContext(q, res)
	system := analystSystemPrompt + "\n\nReject feedback: " + feedback

	body, err := g.client.CompleteWithSystem(ctx, system, prompt)
	if err != nil {
		logging.Analysis("regeneration failed: %v", err)
		body = regenUnavailable
	}
	return frame(res.Player.Name, res.Matchup.Opponent, body, res.Entries)
}

// BuildContext renders the query and fetched data into the prompt the
// generator and judge both see.
func BuildContext(q intent.StructuredQuery, res nba.FetchResult) string {
	var b strings.Builder

	opp := res.Matchup.Opponent
	if opp != "" {
		fmt.Fprintf(&b, "Analyze %s for %.1f %s (%s) vs %s.\n\n",
			res.Player.Name, q.Line, q.Stat, displayDirection(q.Direction), opp)
	} else {
		fmt.Fprintf(&b, "Analyze %s for %.1f %s (%s).\n\n",
			res.Player.Name, q.Line, q.Stat, displayDirection(q.Direction))
	}

	b.WriteString("Recent Games:\n")
	b.WriteString(renderGameTable(res.Entries))

	if opp != "" {
		b.WriteString("\nCareer vs Opponent:\n")
		if vs := res.Matchup.VsStats; vs != nil {
			fmt.Fprintf(&b, "GP %.0f  PTS %.1f  REB %.1f  AST %.1f  FG_PCT %.3f\n",
				vs.GamesPlayed, vs.Points, vs.Rebounds, vs.Assists, vs.FieldGoalPct)
		} else {
			fmt.Fprintf(&b, "No career data vs %s.\n", opp)
		}
	}
	return b.String()
}

// renderGameTable produces the fixed-width game log table embedded in
// prompts and in the framed answer.
func renderGameTable(entries []nba.GameEntry) string {
	if len(entries) == 0 {
		return "(no games recorded yet this season)\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-13s %-2s %4s %4s %4s %5s %5s\n",
		"GAME_DATE", "MATCHUP", "WL", "PTS", "REB", "AST", "FG3M", "MIN")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-12s %-13s %-2s %4.0f %4.0f %4.0f %5.0f %5.0f\n",
			e.Date, e.Matchup, e.WL, e.Pts, e.Reb, e.Ast, e.Fg3m, e.Min)
	}
	return b.String()
}

// fallbackSummary is the deterministic answer used when generation
// fails: mean of the requested stat across the window versus the line.
// Pure; same inputs always produce the same sentence.
func fallbackSummary(q intent.StructuredQuery, name string, entries []nba.GameEntry) string {
	if name == "" {
		name = q.Subject
	}
	if len(entries) == 0 {
		return fmt.Sprintf("No game data is available for %s yet this season, so there is no basis for an over/under call on %.1f %s.",
			name, q.Line, strings.ToLower(q.Stat))
	}

	var sum float64
	for _, e := range entries {
		sum += e.Stat(q.Stat)
	}
	mean := sum / float64(len(entries))

	lean := "OVER"
	if mean < q.Line {
		lean = "UNDER"
	}
	return fmt.Sprintf("%s is averaging %.1f %s over the last %d games, so they are likely to go %s %.1f.",
		name, mean, strings.ToLower(q.Stat), len(entries), lean, q.Line)
}

// frame wraps the analysis body in the markdown answer shell shown to
// the user. Applied by both generation paths so the orchestrator can
// return whatever the generator hands back without touching it.
func frame(name, opponent, body string, entries []nba.GameEntry) string {
	title := "### 🏀 Analysis: " + name
	if opponent != "" {
		title += " vs. " + opponent
	}
	return fmt.Sprintf("%s\n\n%s\n\n**Raw Data (Last %d):**\n```\n%s```",
		title, body, len(entries), renderGameTable(entries))
}

func displayDirection(dir string) string {
	if dir == intent.DirectionBelow {
		return "under"
	}
	return "over"
}
