package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"courtside/internal/intent"
	"courtside/internal/llm"
	"courtside/internal/nba"
)

type failingLLM struct{}

func (c *failingLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("service disabled")
}

func (c *failingLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", errors.New("service disabled")
}

func (c *failingLLM) CompleteWithMessages(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
	return "", errors.New("service disabled")
}

func (c *failingLLM) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	return "", errors.New("service disabled")
}

func (c *failingLLM) SetModel(model string) {}
func (c *failingLLM) GetModel() string      { return "failing" }

type recordingLLM struct {
	lastSystem string
	response   string
}

func (c *recordingLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return c.response, nil
}

func (c *recordingLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.lastSystem = systemPrompt
	return c.response, nil
}

func (c *recordingLLM) CompleteWithMessages(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
	c.lastSystem = systemPrompt
	return c.response, nil
}

func (c *recordingLLM) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	return c.response, nil
}

func (c *recordingLLM) SetModel(model string) {}
func (c *recordingLLM) GetModel() string      { return "recording" }

func curryResult() nba.FetchResult {
	vals := []float64{3, 2, 4, 1, 2}
	entries := make([]nba.GameEntry, len(vals))
	for i, v := range vals {
		entries[i] = nba.GameEntry{Date: "2026-01-10", Matchup: "GSW vs. LAL", WL: "W", Fg3m: v, Pts: 25, Min: 33}
	}
	return nba.FetchResult{
		Player:  nba.Player{ID: 201939, Name: "Stephen Curry"},
		Entries: entries,
	}
}

func TestGenerateFallbackStatesUnder(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 4.5, Direction: intent.DirectionAbove}
	g := NewGenerator(&failingLLM{})

	got := g.Generate(context.Background(), q, curryResult())
	if !strings.Contains(got, "UNDER 4.5") {
		t.Errorf("fallback should call UNDER 4.5:\n%s", got)
	}
	if !strings.Contains(got, "2.4") {
		t.Errorf("fallback should reference the 2.4 average:\n%s", got)
	}
}

func TestFallbackSummaryIsPure(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 4.5, Direction: intent.DirectionAbove}
	res := curryResult()

	first := fallbackSummary(q, res.Player.Name, res.Entries)
	second := fallbackSummary(q, res.Player.Name, res.Entries)
	if first != second {
		t.Errorf("fallback is not deterministic:\n%q\n%q", first, second)
	}
}

func TestFallbackSummaryOverCall(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 1.5, Direction: intent.DirectionAbove}
	res := curryResult()

	got := fallbackSummary(q, res.Player.Name, res.Entries)
	if !strings.Contains(got, "OVER 1.5") {
		t.Errorf("mean 2.4 vs line 1.5 should call OVER:\n%s", got)
	}
}

func TestGenerateZeroEntriesStatesNoData(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Rookie", Stat: "Points", Line: 20.5, Direction: intent.DirectionAbove}
	res := nba.FetchResult{Player: nba.Player{ID: 1, Name: "Fresh Rookie"}}
	g := NewGenerator(&failingLLM{})

	got := g.Generate(context.Background(), q, res)
	if !strings.Contains(got, "No game data") {
		t.Errorf("empty record should produce a no-data answer, got:\n%s", got)
	}
}

func TestGenerateFramesAnswer(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 4.5, Direction: intent.DirectionAbove}
	res := curryResult()
	res.Matchup = nba.MatchupContext{Opponent: "LAL"}
	g := NewGenerator(&recordingLLM{response: "Curry has cooled off from deep."})

	got := g.Generate(context.Background(), q, res)
	if !strings.HasPrefix(got, "### 🏀 Analysis: Stephen Curry vs. LAL") {
		t.Errorf("missing frame title:\n%s", got)
	}
	if !strings.Contains(got, "**Raw Data (Last 5):**") {
		t.Errorf("missing raw data section:\n%s", got)
	}
	if !strings.Contains(got, "Curry has cooled off from deep.") {
		t.Errorf("missing analysis body:\n%s", got)
	}
}

func TestRegenerateAppendsFeedbackToInstructions(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 4.5, Direction: intent.DirectionAbove}
	c := &recordingLLM{response: "Second attempt."}
	g := NewGenerator(c)

	g.Regenerate(context.Background(), q, curryResult(), "cite the actual averages")
	if !strings.Contains(c.lastSystem, "Reject feedback: cite the actual averages") {
		t.Errorf("feedback not appended to instructions: %q", c.lastSystem)
	}
}

func TestRegenerateFailureReturnsFixedMessage(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 4.5, Direction: intent.DirectionAbove}
	g := NewGenerator(&failingLLM{})

	got := g.Regenerate(context.Background(), q, curryResult(), "whatever")
	if !strings.Contains(got, regenUnavailable) {
		t.Errorf("expected the fixed unavailable message, got:\n%s", got)
	}
}

func TestBuildContextIncludesMatchupData(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 4.5, Direction: intent.DirectionBelow}
	res := curryResult()
	res.Matchup = nba.MatchupContext{
		Opponent: "LAL",
		VsStats:  &nba.VsOpponentStats{GamesPlayed: 20, Points: 28.3, Rebounds: 5.1, Assists: 6.2, FieldGoalPct: 0.472},
	}

	ctx := BuildContext(q, res)
	for _, want := range []string{"vs LAL", "under", "GP 20", "PTS 28.3", "GAME_DATE"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q:\n%s", want, ctx)
		}
	}
}

func TestBuildContextNoOpponentData(t *testing.T) {
	q := intent.StructuredQuery{Subject: "Steph Curry", Stat: "3PM", Line: 4.5, Direction: intent.DirectionAbove}
	res := curryResult()
	res.Matchup = nba.MatchupContext{Opponent: "LAL"}

	ctx := BuildContext(q, res)
	if !strings.Contains(ctx, "No career data vs LAL.") {
		t.Errorf("context missing the no-data marker:\n%s", ctx)
	}
}
