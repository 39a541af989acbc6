package analysis

import (
	"context"
	"fmt"

	"courtside/internal/llm"
	"courtside/internal/logging"
)

const profileSystemPrompt = `You answer questions about the scouting profile below. Use only the profile text; if the answer is not in it, say so.

Profile:
%s`

// ProfileAnalyst answers questions against a loaded document instead of
// live stats. Same safeguard shape as the main pipeline: every answer
// is judged, and a rejection triggers one conditioned retry.
type ProfileAnalyst struct {
	client    llm.Client
	evaluator AnswerEvaluator
	profile   string
}

// NewProfileAnalyst builds an analyst over the given profile text.
func NewProfileAnalyst(client llm.Client, evaluator AnswerEvaluator, profileText string) *ProfileAnalyst {
	return &ProfileAnalyst{client: client, evaluator: evaluator, profile: profileText}
}

// Respond answers one question about the profile.
func (p *ProfileAnalyst) Respond(ctx context.Context, userText string, history []Turn) string {
	system := fmt.Sprintf(profileSystemPrompt, p.profile)

	messages := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userText})

	candidate, err := p.client.CompleteWithMessages(ctx, system, messages)
	if err != nil {
		logging.Report("profile answer failed: %v", err)
		return "I couldn't produce an answer from the profile right now. Please try again."
	}

	verdict, err := p.evaluator.Evaluate(ctx, p.profile, candidate, userText, history)
	if err != nil {
		verdict = Verdict{Acceptable: false, Feedback: evaluatorDownFeedback}
	}
	if verdict.Acceptable {
		return candidate
	}

	retry, err := p.client.CompleteWithMessages(ctx, system+"\n\nReject feedback: "+verdict.Feedback, messages)
	if err != nil {
		return regenUnavailable
	}
	return retry
}
