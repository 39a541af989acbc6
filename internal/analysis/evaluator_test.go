package analysis

import (
	"context"
	"strings"
	"testing"

	"courtside/internal/llm"
)

type schemaLLM struct {
	lastUser string
	response string
	err      error
}

func (c *schemaLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return c.response, c.err
}

func (c *schemaLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.response, c.err
}

func (c *schemaLLM) CompleteWithMessages(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error) {
	return c.response, c.err
}

func (c *schemaLLM) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error) {
	c.lastUser = userPrompt
	return c.response, c.err
}

func (c *schemaLLM) SetModel(model string) {}
func (c *schemaLLM) GetModel() string      { return "schema" }

func TestEvaluateDecodesVerdict(t *testing.T) {
	c := &schemaLLM{response: `{"is_acceptable":false,"feedback":"numbers do not match the table"}`}
	e := NewEvaluator(c)

	v, err := e.Evaluate(context.Background(), "", "candidate text", "LeBron over 25.5", nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Acceptable {
		t.Error("expected rejection")
	}
	if v.Feedback != "numbers do not match the table" {
		t.Errorf("feedback = %q", v.Feedback)
	}
}

func TestEvaluateIncludesHistoryAndCandidate(t *testing.T) {
	c := &schemaLLM{response: `{"is_acceptable":true,"feedback":""}`}
	e := NewEvaluator(c)

	history := []Turn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	if _, err := e.Evaluate(context.Background(), "", "the candidate", "the question", history); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	for _, want := range []string{"earlier question", "earlier answer", "the candidate", "the question"} {
		if !strings.Contains(c.lastUser, want) {
			t.Errorf("judge prompt missing %q", want)
		}
	}
}

func TestEvaluateEmbedsDomainContext(t *testing.T) {
	c := &schemaLLM{response: `{"is_acceptable":true,"feedback":""}`}
	e := NewEvaluator(c)

	domainCtx := "Career vs Opponent:\nGP 20  PTS 28.3  REB 5.1  AST 6.2  FG_PCT 0.472"
	if _, err := e.Evaluate(context.Background(), domainCtx, "the candidate", "the question", nil); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !strings.Contains(c.lastUser, "28.3") {
		t.Errorf("judge prompt missing the source data:\n%s", c.lastUser)
	}
	if !strings.Contains(c.lastUser, "Source data:") {
		t.Errorf("judge prompt missing the source data section:\n%s", c.lastUser)
	}
}

func TestEvaluateFailsOnGarbage(t *testing.T) {
	c := &schemaLLM{response: "not json at all"}
	e := NewEvaluator(c)

	if _, err := e.Evaluate(context.Background(), "", "x", "y", nil); err == nil {
		t.Error("expected error for unparseable verdict")
	}
}

func TestEvaluateFailsOnCallError(t *testing.T) {
	e := NewEvaluator(&failingLLM{})
	if _, err := e.Evaluate(context.Background(), "", "x", "y", nil); err == nil {
		t.Error("expected error when the judge call fails")
	}
}
