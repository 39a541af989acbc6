package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"courtside/internal/llm"
	"courtside/internal/logging"
)

const judgeSystemPrompt = `You are a strict reviewer of sports analyses. Judge whether the candidate reply is grounded in the source data below, internally consistent, and responsive to the user's question. Reject replies that invent numbers, contradict the data, or dodge the over/under call.`

const verdictSchema = `{
  "type": "object",
  "properties": {
    "is_acceptable": {"type": "boolean"},
    "feedback": {"type": "string"}
  },
  "required": ["is_acceptable", "feedback"],
  "additionalProperties": false
}`

// Evaluator judges candidate answers with a second, independent call.
type Evaluator struct {
	client llm.Client
}

// NewEvaluator builds an evaluator on the given client.
func NewEvaluator(client llm.Client) *Evaluator {
	return &Evaluator{client: client}
}

// Evaluate returns the judge's verdict on a candidate answer.
// domainContext is the same source data the generator saw, so the
// judge can verify grounding rather than take the candidate's numbers
// on faith. Unlike the generator there is no fallback; a failed call
// is an error the orchestrator must handle.
func (e *Evaluator) Evaluate(ctx context.Context, domainContext, candidate, userText string, history []Turn) (Verdict, error) {
	var b strings.Builder
	if strings.TrimSpace(domainContext) != "" {
		fmt.Fprintf(&b, "Source data:\n%s\n\n", domainContext)
	}
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "[%s] %s\n", t.Role, t.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User message:\n%s\n\nCandidate reply:\n%s\n", userText, candidate)

	raw, err := e.client.CompleteWithSchema(ctx, judgeSystemPrompt, b.String(), verdictSchema)
	if err != nil {
		return Verdict{}, fmt.Errorf("verdict call failed: %w", err)
	}

	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Verdict{}, fmt.Errorf("verdict did not parse: %w", err)
	}

	logging.Verdict("acceptable=%t feedback_len=%d", v.Acceptable, len(v.Feedback))
	return v, nil
}
