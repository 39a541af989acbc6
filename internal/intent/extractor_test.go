package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"courtside/internal/llm"
)

// fixedClient returns a canned response for every call.
type fixedClient struct {
	response string
}

func (c *fixedClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.response, nil
}

func (c *fixedClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.response, nil
}

func (c *fixedClient) CompleteWithMessages(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
	return c.response, nil
}

func (c *fixedClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	return c.response, nil
}

func (c *fixedClient) SetModel(model string) {}
func (c *fixedClient) GetModel() string      { return "fixed" }

// failingClient errors on every call.
type failingClient struct{}

func (c *failingClient) Complete(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("service unavailable")
}

func (c *failingClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", errors.New("service unavailable")
}

func (c *failingClient) CompleteWithMessages(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
	return "", errors.New("service unavailable")
}

func (c *failingClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	return "", errors.New("service unavailable")
}

func (c *failingClient) SetModel(model string) {}
func (c *failingClient) GetModel() string      { return "failing" }

func TestExtractFallbackWhenClientFails(t *testing.T) {
	e := NewExtractor(&failingClient{})
	got := e.Extract(context.Background(), "LeBron over 25.5 points")

	want := StructuredQuery{
		Subject:   "LeBron",
		Stat:      "Points",
		Line:      25.5,
		Direction: DirectionAbove,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStructuredWithFences(t *testing.T) {
	c := &fixedClient{response: "```json\n{\"player\":\"Stephen Curry\",\"stat\":\"3 pointers\",\"line\":\"4.5\",\"direction\":\"under\"}\n```"}
	e := NewExtractor(c)
	got := e.Extract(context.Background(), "Curry under 4.5 threes")

	want := StructuredQuery{
		Subject:   "Stephen Curry",
		Stat:      "3PM",
		Line:      4.5,
		Direction: DirectionBelow,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractTrivialSubjectFallsBack(t *testing.T) {
	c := &fixedClient{response: `{"player":"x","stat":"","line":"","direction":"over"}`}
	e := NewExtractor(c)
	got := e.Extract(context.Background(), "Jokic under 11.5 rebounds")

	want := StructuredQuery{
		Subject:   "Jokic",
		Stat:      "Rebounds",
		Line:      11.5,
		Direction: DirectionBelow,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractNoMatchReturnsDefaults(t *testing.T) {
	e := NewExtractor(&failingClient{})
	got := e.Extract(context.Background(), "what a game last night")

	want := StructuredQuery{
		Subject:   "",
		Stat:      "Points",
		Line:      20.5,
		Direction: DirectionAbove,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractAlwaysPopulated(t *testing.T) {
	inputs := []string{
		"",
		"LeBron over 25.5",
		"random text with no pattern",
		"over under 5",
	}
	e := NewExtractor(&failingClient{})
	for _, in := range inputs {
		q := e.Extract(context.Background(), in)
		if q.Direction != DirectionAbove && q.Direction != DirectionBelow {
			t.Errorf("Extract(%q).Direction = %q", in, q.Direction)
		}
		if q.Stat == "" {
			t.Errorf("Extract(%q).Stat is empty", in)
		}
		if q.Line != q.Line {
			t.Errorf("Extract(%q).Line is NaN", in)
		}
	}
}

func TestCoerceLineForms(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`4.5`, 4.5},
		{`"4.5"`, 4.5},
		{`" 30 "`, 30},
		{`""`, 20.5},
		{`null`, 20.5},
	}
	for _, tc := range cases {
		if got := coerceLine([]byte(tc.raw)); got != tc.want {
			t.Errorf("coerceLine(%s) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
